package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GelvesEmmanuel/Gestor-Finanzas/internal/models"
)

// MetaStore is the record store adapter for savings goals.
type MetaStore struct {
	DB *gorm.DB
}

func NewMetaStore(db *gorm.DB) *MetaStore {
	return &MetaStore{DB: db}
}

// ListByOwner returns every meta of the user with its owner expanded,
// most recent first.
func (s *MetaStore) ListByOwner(userID uint) ([]models.Meta, error) {
	var metas []models.Meta
	if err := s.DB.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&metas).Error; err != nil {
		return nil, fmt.Errorf("list metas: %w", err)
	}
	return metas, nil
}

// FindByID fetches one meta with its owner expanded, or (nil, nil)
// when absent.
func (s *MetaStore) FindByID(id uint) (*models.Meta, error) {
	var meta models.Meta
	err := s.DB.Preload("User").First(&meta, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find meta: %w", err)
	}
	return &meta, nil
}

// UpdateByID applies the partial fields and returns the updated
// record, or (nil, nil) when absent.
func (s *MetaStore) UpdateByID(id uint, fields map[string]any) (*models.Meta, error) {
	existing, err := s.FindByID(id)
	if err != nil || existing == nil {
		return nil, err
	}
	if len(fields) == 0 {
		return existing, nil
	}
	if err := s.DB.Model(&models.Meta{ID: id}).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("update meta: %w", err)
	}
	return s.FindByID(id)
}

// DeleteByID removes the record and returns it, or (nil, nil) when
// absent.
func (s *MetaStore) DeleteByID(id uint) (*models.Meta, error) {
	existing, err := s.FindByID(id)
	if err != nil || existing == nil {
		return nil, err
	}
	if err := s.DB.Delete(&models.Meta{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete meta: %w", err)
	}
	return existing, nil
}

// Insert persists a new meta.
func (s *MetaStore) Insert(meta *models.Meta) error {
	if err := s.DB.Create(meta).Error; err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	return nil
}
