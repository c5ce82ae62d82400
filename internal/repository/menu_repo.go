package repository

import (
	"context"

	"foodhouse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuRepository is the read boundary to the menu collaborator. Cart
// mutations and checkout re-validation consult it; nothing in this core
// writes menu data.
type MenuRepository interface {
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).
		Preload("CustomizationGroups.Options").
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
