package repository

import (
	"context"

	"foodhouse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository resolves staff accounts for audit display. Account
// management and credential handling live with the identity collaborator.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
