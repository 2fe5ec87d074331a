package ledger

import "github.com/shopspring/decimal"

// ValidateAhorro checks the goal invariant: the running saved amount
// stays within [0, objetivo]. Called at every mutation entry point of
// a meta; target edits themselves are never checked retroactively.
func ValidateAhorro(ahorro, objetivo decimal.Decimal) error {
	if ahorro.IsNegative() {
		return NewValidationError("el ahorro no puede ser negativo")
	}
	if ahorro.GreaterThan(objetivo) {
		return NewValidationError("El ahorro no puede exceder el valor objetivo de la meta.")
	}
	return nil
}
