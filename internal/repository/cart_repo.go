package repository

import (
	"context"

	"foodhouse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository persists the cart aggregate. Every mutation happens inside
// InTx with the session row locked, so concurrent device mutations against
// one session serialize instead of racing the version counter.
type CartRepository interface {
	// InTx runs fn inside one transaction. The in-memory test double
	// serializes calls with a mutex, mirroring the row lock.
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	Create(ctx context.Context, session *model.CartSession) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*model.CartSession, error)
	FindBySessionForUpdate(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*model.CartSession, error)
	SaveSession(ctx context.Context, tx *gorm.DB, session *model.CartSession) error
	CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	SaveItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepo{db: db} }

func (r *cartRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *cartRepo) Create(ctx context.Context, session *model.CartSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *cartRepo) FindBySession(ctx context.Context, sessionID uuid.UUID) (*model.CartSession, error) {
	var s model.CartSession
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at") }).
		Preload("Items.Options").
		First(&s, sessionID).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindBySessionForUpdate locks the session row for the duration of the
// surrounding transaction. Children are loaded with follow-up queries; the
// lock on the parent row is what serializes mutations.
func (r *cartRepo) FindBySessionForUpdate(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*model.CartSession, error) {
	var s model.CartSession
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, sessionID).Error
	if err != nil {
		return nil, err
	}
	err = tx.WithContext(ctx).
		Preload("Options").
		Where("cart_session_id = ?", sessionID).
		Order("created_at").
		Find(&s.Items).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cartRepo) SaveSession(ctx context.Context, tx *gorm.DB, session *model.CartSession) error {
	return tx.WithContext(ctx).Omit("Items").Save(session).Error
}

func (r *cartRepo) CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) SaveItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Omit("Options").Save(item).Error
}

func (r *cartRepo) DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	if err := tx.WithContext(ctx).Where("cart_item_id = ?", itemID).Delete(&model.CartItemOption{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Delete(&model.CartItem{}, itemID).Error
}

func (r *cartRepo) DeleteItems(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	err := tx.WithContext(ctx).
		Where("cart_item_id IN (?)",
			tx.Model(&model.CartItem{}).Select("id").Where("cart_session_id = ?", sessionID)).
		Delete(&model.CartItemOption{}).Error
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Where("cart_session_id = ?", sessionID).Delete(&model.CartItem{}).Error
}
