package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	MethodCash          PaymentMethod = "CASH"
	MethodCreditCard    PaymentMethod = "CREDIT_CARD"
	MethodDebitCard     PaymentMethod = "DEBIT_CARD"
	MethodMobilePayment PaymentMethod = "MOBILE_PAYMENT"
	MethodOther         PaymentMethod = "OTHER"
)

var validMethods = map[PaymentMethod]bool{
	MethodCash:          true,
	MethodCreditCard:    true,
	MethodDebitCard:     true,
	MethodMobilePayment: true,
	MethodOther:         true,
}

func (m PaymentMethod) Valid() bool { return validMethods[m] }

// Payment is an immutable record of money received against an order.
// Corrections never mutate the row — they void it (Voided=true) or append a
// Refund, and TotalPaid is recomputed from the surviving records.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null"`
	TransactionID *string
	Notes         *string
	Voided        bool       `gorm:"not null;default:false"`
	VoidedBy      *uuid.UUID `gorm:"type:uuid"`
	VoidedAt      *time.Time
	RecordedBy    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}

// Refund is an immutable record of money returned. Amount is bounded by the
// order's TotalPaid at creation time.
type Refund struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason    *string
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}
