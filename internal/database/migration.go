package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Finanza{},
		&models.Meta{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
