package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartSession is the session-scoped order-in-progress. One authoritative row
// per session; every connected device for the session renders this state.
// Version increases by exactly 1 on every accepted mutation — clients use it
// to discard stale broadcasts.
type CartSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'THB'"`
	Version   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItem `gorm:"foreignKey:CartSessionID"`
}

// CartItem snapshots the menu price at add-time. FinalPrice is the per-unit
// price: BasePrice + sum of selected option deltas. Quantity is always ≥ 1 —
// removing the last unit removes the row.
type CartItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartSessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	MenuItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	Name          string          `gorm:"not null"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FinalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity      int             `gorm:"not null"`
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Options []CartItemOption `gorm:"foreignKey:CartItemID;constraint:OnDelete:CASCADE"`
}

// CartItemOption records one selected customization option with its price
// delta frozen at selection time.
type CartItemOption struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartItemID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	OptionID        uuid.UUID       `gorm:"type:uuid;not null"`
	GroupID         uuid.UUID       `gorm:"type:uuid;not null"`
	Name            string          `gorm:"not null"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

// LineTotal is FinalPrice × Quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.FinalPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
