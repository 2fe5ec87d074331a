package ledger

import (
	"strconv"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
)

// Owned is any record that can report its owning-user reference.
// The reference may come back from the store as a bare id or as an
// expanded user object, depending on whether the query preloaded it.
type Owned interface {
	Owner() any
}

// OwnerID normalizes an owner reference to its canonical string id.
// It accepts a bare numeric or string id, or an expanded user object.
// ok is false when no id can be extracted; callers must treat that as
// unresolved ownership and deny.
func OwnerID(owner any) (string, bool) {
	switch v := owner.(type) {
	case nil:
		return "", false
	case *models.User:
		if v == nil || v.ID == 0 {
			return "", false
		}
		return strconv.FormatUint(uint64(v.ID), 10), true
	case models.User:
		if v.ID == 0 {
			return "", false
		}
		return strconv.FormatUint(uint64(v.ID), 10), true
	case uint:
		if v == 0 {
			return "", false
		}
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatUint(v, 10), true
	case int:
		if v <= 0 {
			return "", false
		}
		return strconv.Itoa(v), true
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	default:
		return "", false
	}
}

// Authorize decides whether callerID owns the record. Pure: no store
// access, never panics. An absent or unresolvable owner reference
// always denies.
func Authorize(record Owned, callerID string) bool {
	if record == nil || callerID == "" {
		return false
	}
	ownerID, ok := OwnerID(record.Owner())
	if !ok {
		return false
	}
	return ownerID == callerID
}
