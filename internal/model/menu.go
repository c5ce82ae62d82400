package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is the menu collaborator's read model. Cart mutations and checkout
// re-validation consult it for price, visibility and customization rules;
// menu CRUD itself lives outside this core.
type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	Description *string
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsHidden    bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	CustomizationGroups []CustomizationGroup `gorm:"foreignKey:MenuItemID"`
}

// CustomizationGroup bounds how many options a guest may pick
// (e.g. "Size: exactly one", "Toppings: up to three").
type CustomizationGroup struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MenuItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name          string    `gorm:"not null"`
	MinSelectable int       `gorm:"not null;default:0"`
	MaxSelectable int       `gorm:"not null;default:1"`

	Options []CustomizationOption `gorm:"foreignKey:GroupID"`
}

// CustomizationOption carries its own price delta on top of the item's base
// price.
type CustomizationOption struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name            string          `gorm:"not null"`
	AdditionalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}
