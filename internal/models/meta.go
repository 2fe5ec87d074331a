package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meta is a savings goal. Invariant: ValorAhorroActual never exceeds
// ValorObjetivo; enforced at every mutation entry point, never
// retroactively when the target itself is edited.
type Meta struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Titulo            string          `gorm:"size:128;not null" json:"titulo"`
	Descripcion       string          `gorm:"size:255;not null" json:"descripcion"`
	ValorObjetivo     decimal.Decimal `gorm:"type:numeric;not null" json:"valorObjetivo"`
	ValorAhorroActual decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"valorAhorroActual"`
	UserID            uint            `gorm:"index;not null" json:"userId"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// Owner returns the owning-user reference, expanded or bare.
func (m *Meta) Owner() any {
	if m.User != nil {
		return m.User
	}
	return m.UserID
}
