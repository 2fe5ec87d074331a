package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateValor checks that a monetary amount is strictly positive.
func ValidateValor(valor decimal.Decimal) error {
	if valor.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("el valor debe ser positivo, recibido %s", valor)
	}
	return nil
}

// ParseFecha parses a date accepting the formats the frontend sends.
func ParseFecha(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacia")
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha invalido: %q", s)
}

// ValidateDescripcion checks a free-text description field.
func ValidateDescripcion(s string) error {
	if s == "" {
		return fmt.Errorf("la descripcion es obligatoria")
	}
	if len(s) > 255 {
		return fmt.Errorf("descripcion demasiado larga, maximo 255 caracteres")
	}
	return nil
}
