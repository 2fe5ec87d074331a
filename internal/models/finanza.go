package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// montos travel as JSON numbers, like the API this replaces
	decimal.MarshalJSONWithoutQuotes = true
}

// Tipo values for a Finanza. The sign of a movement is carried by the
// type, never by the amount: Valor is always positive.
const (
	TipoIngreso = "Ingreso"
	TipoGasto   = "Gasto"
)

// Finanza is a single income or expense movement.
// Amounts are stored as exact decimals to avoid float drift in sums.
type Finanza struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Tipo        string          `gorm:"size:16;index;not null" json:"tipo"` // Ingreso / Gasto
	Valor       decimal.Decimal `gorm:"type:numeric;not null" json:"valor"`
	Descripcion string          `gorm:"size:255;not null" json:"descripcion"`
	Fecha       time.Time       `gorm:"index;not null" json:"fecha"` // defaults to creation time
	UserID      uint            `gorm:"index;not null" json:"userId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// Owner returns the owning-user reference: the preloaded User when the
// row came back expanded, otherwise the bare UserID.
func (f *Finanza) Owner() any {
	if f.User != nil {
		return f.User
	}
	return f.UserID
}

// TipoValido reports whether t is one of the two movement types.
func TipoValido(t string) bool {
	return t == TipoIngreso || t == TipoGasto
}
