package repository

import (
	"context"

	"foodhouse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreRepository is the read boundary to the store-settings collaborator.
// Checkout consults it exactly once per order to snapshot the current rates.
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var s model.Store
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
