package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen/fulfillment lifecycle. Payment state is tracked
// independently — a COMPLETED order may still carry a balance and a PENDING
// order may be fully paid.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// statusTransitions is the single-step transition table. COMPLETED and
// CANCELLED are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from → to is a legal single-step move.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// forwardRank orders the non-cancelled states for override checks: an ADMIN
// override may skip forward but never move backwards or out of a terminal
// state.
var forwardRank = map[OrderStatus]int{
	StatusPending:   1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusCompleted: 4,
}

// CanOverride reports whether from → to is allowed as a logged staff
// override (forward skip only).
func CanOverride(from, to OrderStatus) bool {
	fr, fok := forwardRank[from]
	tr, tok := forwardRank[to]
	return fok && tok && tr > fr && from != StatusCompleted
}

// OrderType distinguishes fulfillment modes; it does not affect totals.
type OrderType string

const (
	OrderTypeDineIn  OrderType = "DINE_IN"
	OrderTypeTakeout OrderType = "TAKEOUT"
)

// DiscountType — PERCENTAGE values are 0–100, FIXED_AMOUNT values are
// bounded by the order's subtotal.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Order is the immutable financial record created from a cart at checkout.
// Monetary snapshot fields only change through discount application/removal
// and payment/refund recording. Orders are never physically deleted.
//
// Invariant after every commit:
//
//	GrandTotal = SubTotal + VatAmount + ServiceChargeAmount − DiscountAmount ≥ 0
//	TotalPaid  = Σ non-voided Payment.Amount − Σ Refund.Amount
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber int       `gorm:"not null;index:idx_orders_store_number,unique"`
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index:idx_orders_store_number,unique"`
	// SessionID is nil for staff-created quick sales.
	SessionID *uuid.UUID  `gorm:"type:uuid;index"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	OrderType OrderType   `gorm:"type:varchar(20);not null"`

	SubTotal                  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VatRateSnapshot           decimal.Decimal `gorm:"type:decimal(6,4);not null"`
	ServiceChargeRateSnapshot decimal.Decimal `gorm:"type:decimal(6,4);not null"`
	VatAmount                 decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ServiceChargeAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GrandTotal                decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	DiscountType      *DiscountType    `gorm:"type:varchar(20)"`
	DiscountValue     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountAmount    decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountReason    *string
	DiscountAppliedBy *uuid.UUID `gorm:"type:uuid"`
	DiscountAppliedAt *time.Time

	// TotalPaid is recomputed inside the same transaction as every payment,
	// refund and void so the invariant holds after each commit.
	TotalPaid decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// IdempotencyKey deduplicates checkout retries; unique when present.
	IdempotencyKey *string `gorm:"uniqueIndex"`

	// CustomerEmail, when present, is where the receipt worker mails the PDF
	// once the order is paid in full.
	CustomerEmail *string

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Payments []Payment   `gorm:"foreignKey:OrderID"`
	Refunds  []Refund    `gorm:"foreignKey:OrderID"`
}

// RawBalance is GrandTotal − TotalPaid without clamping. Negative means
// overpayment and must be surfaced to callers that need it, not hidden.
func (o *Order) RawBalance() decimal.Decimal {
	return o.GrandTotal.Sub(o.TotalPaid)
}

// RemainingBalance is the display balance, clamped to ≥ 0.
func (o *Order) RemainingBalance() decimal.Decimal {
	if raw := o.RawBalance(); raw.IsPositive() {
		return raw
	}
	return decimal.Zero
}

// IsPaidInFull holds exactly when the clamped remaining balance is zero.
func (o *Order) IsPaidInFull() bool {
	return o.RemainingBalance().IsZero()
}

// OrderItem freezes the cart line at checkout: price re-snapshotted from the
// menu, quantity, and the computed per-unit final price.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"not null"`
	BasePrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FinalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity   int             `gorm:"not null"`
	Notes      string
	CreatedAt  time.Time

	Customizations []OrderItemCustomization `gorm:"foreignKey:OrderItemID"`
}

// LineTotal is FinalPrice × Quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.FinalPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemCustomization is the immutable copy of a selected option.
type OrderItemCustomization struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderItemID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	OptionID        uuid.UUID       `gorm:"type:uuid;not null"`
	Name            string          `gorm:"not null"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}
