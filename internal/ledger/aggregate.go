package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
)

// BalanceSummary holds the aggregated totals over a set of finanzas.
// Balance may be negative.
type BalanceSummary struct {
	Ingresos decimal.Decimal `json:"ingresos"`
	Gastos   decimal.Decimal `json:"gastos"`
	Balance  decimal.Decimal `json:"balance"`
}

// Aggregate partitions finanzas by tipo and sums each side exactly.
// Empty input yields an all-zero summary.
func Aggregate(fins []models.Finanza) BalanceSummary {
	ingresos := decimal.Zero
	gastos := decimal.Zero
	for i := range fins {
		if fins[i].Tipo == models.TipoIngreso {
			ingresos = ingresos.Add(fins[i].Valor)
		} else {
			gastos = gastos.Add(fins[i].Valor)
		}
	}
	return BalanceSummary{
		Ingresos: ingresos,
		Gastos:   gastos,
		Balance:  ingresos.Sub(gastos),
	}
}

// AggregatePeriod filters finanzas whose fecha falls in the inclusive
// [inicio, fin] range and aggregates the result. Both bounds are
// mandatory: a zero bound or inicio after fin fails with
// ErrInvalidRange. The filtered records are returned alongside the
// summary, preserving input order.
func AggregatePeriod(fins []models.Finanza, inicio, fin time.Time) (BalanceSummary, []models.Finanza, error) {
	if inicio.IsZero() || fin.IsZero() || inicio.After(fin) {
		return BalanceSummary{}, nil, ErrInvalidRange
	}
	registros := make([]models.Finanza, 0, len(fins))
	for i := range fins {
		f := fins[i].Fecha
		if f.Before(inicio) || f.After(fin) {
			continue
		}
		registros = append(registros, fins[i])
	}
	return Aggregate(registros), registros, nil
}
