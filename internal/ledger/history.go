package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
)

// KindFinanza is the source kind for history items projected from
// ledger entries. Other kinds (goal funding events) can be added
// without touching Merge.
const KindFinanza = "Finanza"

// HistoryItem is a normalized, read-only projection of a record used
// only for reporting. It is produced transiently and never persisted.
type HistoryItem struct {
	ID          uint            `json:"id"`
	Fecha       time.Time       `json:"fecha"`
	Tipo        string          `json:"tipo"`   // source kind, e.g. "Finanza"
	Accion      string          `json:"accion"` // Ingreso / Gasto
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
}

// HistoryFilter bounds a history by date. Nil bounds are open; set
// bounds are inclusive.
type HistoryFilter struct {
	Inicio *time.Time
	Fin    *time.Time
}

func (f HistoryFilter) keep(fecha time.Time) bool {
	if f.Inicio != nil && fecha.Before(*f.Inicio) {
		return false
	}
	if f.Fin != nil && fecha.After(*f.Fin) {
		return false
	}
	return true
}

// FinanzaItems maps each finanza to one history item.
func FinanzaItems(fins []models.Finanza) []HistoryItem {
	items := make([]HistoryItem, 0, len(fins))
	for i := range fins {
		items = append(items, HistoryItem{
			ID:          fins[i].ID,
			Fecha:       fins[i].Fecha,
			Tipo:        KindFinanza,
			Accion:      fins[i].Tipo,
			Descripcion: fins[i].Descripcion,
			Monto:       fins[i].Valor,
		})
	}
	return items
}

// Merge combines item groups into one sequence ordered by fecha,
// most recent first. The sort is stable: input order breaks ties,
// so re-running over identical inputs yields an identical sequence.
func Merge(groups ...[]HistoryItem) []HistoryItem {
	merged := make([]HistoryItem, 0)
	for _, g := range groups {
		merged = append(merged, g...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Fecha.After(merged[j].Fecha)
	})
	return merged
}

// BuildHistory projects finanzas into history items, applies the
// filter and returns the merged, date-ordered sequence.
func BuildHistory(fins []models.Finanza, filter HistoryFilter) []HistoryItem {
	items := FinanzaItems(fins)
	kept := items[:0]
	for _, it := range items {
		if filter.keep(it.Fecha) {
			kept = append(kept, it)
		}
	}
	return Merge(kept)
}
