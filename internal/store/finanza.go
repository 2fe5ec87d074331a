// Package store wraps gorm behind the record-store surface the
// handlers consume: find-by-owner, find-by-id, partial update, delete
// and insert, each scoped to one collection. Absent records come back
// as (nil, nil); only real persistence failures return errors.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
)

// FinanzaStore is the record store adapter for ledger entries.
type FinanzaStore struct {
	DB *gorm.DB
}

func NewFinanzaStore(db *gorm.DB) *FinanzaStore {
	return &FinanzaStore{DB: db}
}

// ListByOwner returns every finanza of the user, most recent first.
func (s *FinanzaStore) ListByOwner(userID uint) ([]models.Finanza, error) {
	var fins []models.Finanza
	if err := s.DB.Where("user_id = ?", userID).
		Order("fecha DESC, id DESC").
		Find(&fins).Error; err != nil {
		return nil, fmt.Errorf("list finanzas: %w", err)
	}
	return fins, nil
}

// FindByID fetches one finanza with its owner expanded, or (nil, nil)
// when absent.
func (s *FinanzaStore) FindByID(id uint) (*models.Finanza, error) {
	var fin models.Finanza
	err := s.DB.Preload("User").First(&fin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find finanza: %w", err)
	}
	return &fin, nil
}

// UpdateByID applies the partial fields and returns the updated
// record, or (nil, nil) when absent.
func (s *FinanzaStore) UpdateByID(id uint, fields map[string]any) (*models.Finanza, error) {
	existing, err := s.FindByID(id)
	if err != nil || existing == nil {
		return nil, err
	}
	if len(fields) == 0 {
		return existing, nil
	}
	if err := s.DB.Model(&models.Finanza{ID: id}).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update finanza: %w", err)
	}
	return s.FindByID(id)
}

// DeleteByID removes the record and returns it, or (nil, nil) when
// absent.
func (s *FinanzaStore) DeleteByID(id uint) (*models.Finanza, error) {
	existing, err := s.FindByID(id)
	if err != nil || existing == nil {
		return nil, err
	}
	if err := s.DB.Delete(&models.Finanza{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete finanza: %w", err)
	}
	return existing, nil
}

// Insert persists a new finanza.
func (s *FinanzaStore) Insert(fin *models.Finanza) error {
	if err := s.DB.Create(fin).Error; err != nil {
		return fmt.Errorf("insert finanza: %w", err)
	}
	return nil
}
