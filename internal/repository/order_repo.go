package repository

import (
	"context"

	"foodhouse/internal/dto"
	"foodhouse/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository persists the order aggregate. Balance checks and the writes
// that depend on them ("validate balance, then record payment") must run
// inside InTx with the order row locked — two concurrent payments can then
// never both pass the check against a stale balance.
type OrderRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
	NextOrderNumber(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (int, error)
	// UpdateStatusGuard transitions id from → to and reports rows affected;
	// 0 means the order was not in the expected state (lost race or illegal).
	UpdateStatusGuard(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, o *model.Order) error
	CreatePayment(ctx context.Context, tx *gorm.DB, p *model.Payment) error
	SavePayment(ctx context.Context, tx *gorm.DB, p *model.Payment) error
	CreateRefund(ctx context.Context, tx *gorm.DB, r *model.Refund) error
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Customizations").
		Preload("Payments").
		Preload("Refunds").
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByIDForUpdate locks the order row for the surrounding transaction and
// loads payments/refunds with follow-up queries under that lock.
func (r *orderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("order_id = ?", id).Find(&o.Payments).Error; err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Where("order_id = ?", id).Find(&o.Refunds).Error; err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Preload("Customizations").Where("order_id = ?", id).Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Customizations").
		Preload("Payments").
		Preload("Refunds").
		Where("idempotency_key = ?", key).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// NextOrderNumber atomically increments the per-store counter row and returns
// the new value. The upsert keeps numbers sequential per store without a
// dedicated sequence object.
func (r *orderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO order_counters (store_id, last_number) VALUES (?, 1)
		ON CONFLICT (store_id) DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number`, storeID).Scan(&num).Error
	return num, err
}

func (r *orderRepo) UpdateStatusGuard(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) Save(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "Payments", "Refunds").Save(o).Error
}

func (r *orderRepo) CreatePayment(ctx context.Context, tx *gorm.DB, p *model.Payment) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *orderRepo) SavePayment(ctx context.Context, tx *gorm.DB, p *model.Payment) error {
	return tx.WithContext(ctx).Save(p).Error
}

func (r *orderRepo) CreateRefund(ctx context.Context, tx *gorm.DB, ref *model.Refund) error {
	return tx.WithContext(ctx).Create(ref).Error
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Customizations").Preload("Payments").Preload("Refunds").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}
