package dto

import "github.com/shopspring/decimal"

type ApplyDiscountRequest struct {
	Type   string          `json:"type"   validate:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value  decimal.Decimal `json:"value"  validate:"required"`
	Reason string          `json:"reason" validate:"required,min=3,max=200"`
}
