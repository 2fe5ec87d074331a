package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/ledger"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/middleware"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/store"
	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/util"
)

// HistorialHandler serves the merged activity history and its
// downloadable reports.
type HistorialHandler struct {
	Finanzas *store.FinanzaStore
}

func NewHistorialHandler(finanzas *store.FinanzaStore) *HistorialHandler {
	return &HistorialHandler{Finanzas: finanzas}
}

func parseHistorialFilter(c *gin.Context) (ledger.HistoryFilter, error) {
	var filter ledger.HistoryFilter
	if s := c.Query("fechaInicio"); s != "" {
		t, err := util.ParseFecha(s)
		if err != nil {
			return filter, err
		}
		filter.Inicio = &t
	}
	if s := c.Query("fechaFin"); s != "" {
		t, err := util.ParseFecha(s)
		if err != nil {
			return filter, err
		}
		t = endOfDay(t)
		filter.Fin = &t
	}
	return filter, nil
}

// Get returns the caller's history, most recent first, optionally
// bounded by inclusive fechaInicio/fechaFin.
func (h *HistorialHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	filter, err := parseHistorialFilter(c)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, util.KindValidation, err.Error())
		return
	}

	fins, err := h.Finanzas.ListByOwner(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, ledger.BuildHistory(fins, filter))
}

// Descargar renders the caller's full history into the requested
// binary format ("pdf" or "excel") and streams it as a download.
func (h *HistorialHandler) Descargar(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, http.StatusUnauthorized, util.KindAuth, "No esta autorizado")
		return
	}

	formato := c.Query("formato")
	if formato != ledger.FormatoPDF && formato != ledger.FormatoExcel {
		util.Fail(c, http.StatusBadRequest, util.KindBadFormat, "Formato inválido")
		return
	}

	fins, err := h.Finanzas.ListByOwner(user.ID)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, "Error interno del servidor")
		return
	}

	items := ledger.BuildHistory(fins, ledger.HistoryFilter{})
	report, err := ledger.Render(items, formato)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, util.KindServerError, "Error interno del servidor")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(report.Data)))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
