package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds the per-store settings the checkout pipeline snapshots.
// VatRate and ServiceChargeRate are fractional (0.07 = 7%); rate changes
// never retroactively affect existing orders because checkout copies them
// onto the order.
type Store struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string          `gorm:"not null"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'THB'"`
	VatRate           decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	ServiceChargeRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderCounter backs the sequential human-readable order number, one row per
// store, incremented inside the checkout transaction.
type OrderCounter struct {
	StoreID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int       `gorm:"not null;default:0"`
}
