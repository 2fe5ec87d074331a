package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/ledger"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/middleware"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/store"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/util"
)

const msgMetaNoEncontrada = "Meta no encontrada"

// validationMessages unpacks a ledger.ValidationError into the
// message list of the tagged error envelope.
func validationMessages(err error) []string {
	var ve *ledger.ValidationError
	if errors.As(err, &ve) && len(ve.Messages) > 0 {
		return ve.Messages
	}
	return []string{err.Error()}
}

// MetaHandler serves the savings-goal endpoints.
type MetaHandler struct {
	Store *store.MetaStore
}

func NewMetaHandler(s *store.MetaStore) *MetaHandler {
	return &MetaHandler{Store: s}
}

func (h *MetaHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	metas, err := h.Store.ListByOwner(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, metas)
}

type createMetaReq struct {
	Titulo            string           `json:"titulo"`
	Descripcion       string           `json:"descripcion"`
	ValorObjetivo     decimal.Decimal  `json:"valorObjetivo"`
	ValorAhorroActual *decimal.Decimal `json:"valorAhorroActual"`
}

func (h *MetaHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	var req createMetaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "parametros invalidos")
		return
	}

	if req.Titulo == "" {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "el titulo es obligatorio")
		return
	}
	if err := util.ValidateDescripcion(req.Descripcion); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
		return
	}
	if err := util.ValidateValor(req.ValorObjetivo); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
		return
	}

	ahorro := decimal.Zero
	if req.ValorAhorroActual != nil {
		ahorro = *req.ValorAhorroActual
	}
	if err := ledger.ValidateAhorro(ahorro, req.ValorObjetivo); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, validationMessages(err)...)
		return
	}

	meta := models.Meta{
		Titulo:            req.Titulo,
		Descripcion:       req.Descripcion,
		ValorObjetivo:     req.ValorObjetivo,
		ValorAhorroActual: ahorro,
		UserID:            user.ID,
	}
	if err := h.Store.Insert(&meta); err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, meta)
}

// fetchOwned loads a meta and applies the ownership guard. On a deny
// the caller gets 403, never a 500.
func (h *MetaHandler) fetchOwned(c *gin.Context, user *models.User, denyMsg string) (*models.Meta, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}

	meta, err := h.Store.FindByID(id)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return nil, false
	}
	if meta == nil {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, msgMetaNoEncontrada)
		return nil, false
	}
	if !ledger.Authorize(meta, callerID(user)) {
		util.Fail(c, http.StatusForbidden, util.KindForbidden, denyMsg)
		return nil, false
	}
	return meta, true
}

func (h *MetaHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}
	meta, ok := h.fetchOwned(c, user, "No tienes permiso para ver esta meta")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, meta)
}

type updateMetaReq struct {
	Titulo            *string          `json:"titulo"`
	Descripcion       *string          `json:"descripcion"`
	ValorObjetivo     *decimal.Decimal `json:"valorObjetivo"`
	ValorAhorroActual *decimal.Decimal `json:"valorAhorroActual"`
}

func (h *MetaHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	var req updateMetaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "parametros invalidos")
		return
	}

	meta, ok := h.fetchOwned(c, user, "No tienes permiso para actualizar esta meta")
	if !ok {
		return
	}

	fields := map[string]any{}
	if req.Titulo != nil {
		if *req.Titulo == "" {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, "el titulo es obligatorio")
			return
		}
		fields["titulo"] = *req.Titulo
	}
	if req.Descripcion != nil {
		if err := util.ValidateDescripcion(*req.Descripcion); err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
			return
		}
		fields["descripcion"] = *req.Descripcion
	}

	// target edits are never enforced retroactively against the saved
	// amount; the saved amount itself is checked on every mutation
	objetivo := meta.ValorObjetivo
	if req.ValorObjetivo != nil {
		if err := util.ValidateValor(*req.ValorObjetivo); err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
			return
		}
		objetivo = *req.ValorObjetivo
		fields["valor_objetivo"] = *req.ValorObjetivo
	}
	if req.ValorAhorroActual != nil {
		if err := ledger.ValidateAhorro(*req.ValorAhorroActual, objetivo); err != nil {
			util.Fail(c, http.StatusBadRequest, util.KindValidation, validationMessages(err)...)
			return
		}
		fields["valor_ahorro_actual"] = *req.ValorAhorroActual
	}

	updated, err := h.Store.UpdateByID(meta.ID, fields)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if updated == nil {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, msgMetaNoEncontrada)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type ahorroReq struct {
	ValorAhorro decimal.Decimal `json:"valorAhorro"`
}

// UpdateAhorro sets the running saved amount of a goal, holding the
// saved <= target invariant.
func (h *MetaHandler) UpdateAhorro(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	var req ahorroReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, "parametros invalidos")
		return
	}

	meta, ok := h.fetchOwned(c, user, "No tienes permiso para actualizar esta meta")
	if !ok {
		return
	}

	if err := ledger.ValidateAhorro(req.ValorAhorro, meta.ValorObjetivo); err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, validationMessages(err)...)
		return
	}

	updated, err := h.Store.UpdateByID(meta.ID, map[string]any{
		"valor_ahorro_actual": req.ValorAhorro,
	})
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	if updated == nil {
		util.Fail(c, http.StatusNotFound, util.KindNotFound, msgMetaNoEncontrada)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *MetaHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	meta, ok := h.fetchOwned(c, user, "No tienes permiso para eliminar esta meta")
	if !ok {
		return
	}

	if _, err := h.Store.DeleteByID(meta.ID); err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
