package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/ledger"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/middleware"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/store"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/util"
)

const msgTipoInvalido = "El tipo debe ser gasto o Ingreso"

// FinanzaHandler serves the ledger-entry endpoints: CRUD plus the
// balance aggregates.
type FinanzaHandler struct {
	Store *store.FinanzaStore
}

func NewFinanzaHandler(s *store.FinanzaStore) *FinanzaHandler {
	return &FinanzaHandler{Store: s}
}

func callerID(user *models.User) string {
	return strconv.FormatUint(uint64(user.ID), 10)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, "tarea no encontrada")
		return 0, false
	}
	return uint(id), true
}

// List returns every finanza of the caller, most recent first.
func (h *FinanzaHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	fins, err := h.Store.ListByOwner(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, fins)
}

type createFinanzaReq struct {
	Valor       decimal.Decimal `json:"valor"`
	Descripcion string          `json:"descripcion"`
	Tipo        string          `json:"tipo"`
	Fecha       string          `json:"fecha"`
}

func (h *FinanzaHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	var req createFinanzaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "parametros invalidos")
		return
	}

	if !models.TipoValido(req.Tipo) {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, msgTipoInvalido)
		return
	}
	if err := util.ValidateValor(req.Valor); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
		return
	}
	if err := util.ValidateDescripcion(req.Descripcion); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
		return
	}

	// occurrence date defaults to creation time
	fecha := time.Now()
	if req.Fecha != "" {
		t, err := util.ParseFecha(req.Fecha)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
			return
		}
		fecha = t
	}

	fin := models.Finanza{
		Tipo:        req.Tipo,
		Valor:       req.Valor,
		Descripcion: req.Descripcion,
		Fecha:       fecha,
		UserID:      user.ID,
	}
	if err := h.Store.Insert(&fin); err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, fin)
}

// Get returns one finanza of the caller. A record owned by someone
// else reads as absent: the response never reveals its existence.
func (h *FinanzaHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fin, err := h.Store.FindByID(id)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if fin == nil || !ledger.Authorize(fin, callerID(user)) {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, "tarea no encontrada")
		return
	}
	c.JSON(http.StatusOK, fin)
}

type updateFinanzaReq struct {
	Valor       *decimal.Decimal `json:"valor"`
	Descripcion *string          `json:"descripcion"`
	Tipo        *string          `json:"tipo"`
	Fecha       *string          `json:"fecha"`
}

func (h *FinanzaHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateFinanzaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "parametros invalidos")
		return
	}

	fields := map[string]any{}
	if req.Tipo != nil {
		if !models.TipoValido(*req.Tipo) {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, msgTipoInvalido)
			return
		}
		fields["tipo"] = *req.Tipo
	}
	if req.Valor != nil {
		if err := util.ValidateValor(*req.Valor); err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
			return
		}
		fields["valor"] = *req.Valor
	}
	if req.Descripcion != nil {
		if err := util.ValidateDescripcion(*req.Descripcion); err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
			return
		}
		fields["descripcion"] = *req.Descripcion
	}
	if req.Fecha != nil {
		t, err := util.ParseFecha(*req.Fecha)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
			return
		}
		fields["fecha"] = t
	}

	fin, err := h.Store.FindByID(id)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if fin == nil || !ledger.Authorize(fin, callerID(user)) {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, "tarea no encontrada")
		return
	}

	updated, err := h.Store.UpdateByID(id, fields)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if updated == nil {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, "tarea no encontrada")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FinanzaHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fin, err := h.Store.FindByID(id)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if fin == nil || !ledger.Authorize(fin, callerID(user)) {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, "tarea no encontrada")
		return
	}

	if _, err := h.Store.DeleteByID(id); err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// Balance returns the all-time aggregate of the caller's finanzas.
func (h *FinanzaHandler) Balance(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	fins, err := h.Store.ListByOwner(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	resumen := ledger.Aggregate(fins)
	c.JSON(http.StatusOK, gin.H{
		"ingresos": resumen.Ingresos,
		"gastos":   resumen.Gastos,
		"balance":  resumen.Balance,
	})
}

// BalancePeriodo returns the aggregate bounded to an inclusive date
// range; both bounds are mandatory.
func (h *FinanzaHandler) BalancePeriodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	inicioStr := c.Query("fechaInicio")
	finStr := c.Query("fechaFin")
	if inicioStr == "" || finStr == "" {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "valores incorrectos")
		return
	}

	inicio, err := util.ParseFecha(inicioStr)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "valores incorrectos")
		return
	}
	fin, err := util.ParseFecha(finStr)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "valores incorrectos")
		return
	}
	fin = endOfDay(fin)

	fins, err := h.Store.ListByOwner(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}

	resumen, registros, err := ledger.AggregatePeriod(fins, inicio, fin)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "valores incorrectos")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingresosPeriodo": resumen.Ingresos,
		"gastosPeriodo":   resumen.Gastos,
		"balancePeriodo":  resumen.Balance,
		"registros":       registros,
	})
}

// endOfDay widens a date-only bound to the last instant of that day,
// so the range stays inclusive for entries carrying a clock time.
func endOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}
