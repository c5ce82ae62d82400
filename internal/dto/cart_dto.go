package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OptionSelection struct {
	OptionID string `json:"option_id" validate:"required,uuid"`
}

type AddItemRequest struct {
	MenuItemID string            `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int               `json:"quantity"     validate:"required,min=1"`
	Notes      string            `json:"notes"        validate:"max=500"`
	Options    []OptionSelection `json:"options"      validate:"dive"`
	// ExpectedVersion enables optimistic concurrency from the client: when
	// set, the mutation is rejected with a conflict if the authoritative cart
	// has moved past it.
	ExpectedVersion *int64 `json:"expected_version"`
}

type UpdateItemRequest struct {
	// Quantity 0 removes the line, so zero must survive validation.
	Quantity        int    `json:"quantity" validate:"min=0"`
	Notes           string `json:"notes"    validate:"max=500"`
	ExpectedVersion *int64 `json:"expected_version"`
}

type CreateSessionRequest struct {
	StoreID string `json:"store_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartOptionResponse struct {
	OptionID        string          `json:"option_id"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

type CartItemResponse struct {
	ID         string               `json:"id"`
	MenuItemID string               `json:"menu_item_id"`
	Name       string               `json:"name"`
	BasePrice  decimal.Decimal      `json:"base_price"`
	FinalPrice decimal.Decimal      `json:"final_price"`
	Quantity   int                  `json:"quantity"`
	Notes      string               `json:"notes,omitempty"`
	LineTotal  decimal.Decimal      `json:"line_total"`
	Options    []CartOptionResponse `json:"options"`
}

// CartResponse is the authoritative cart state. It is both the HTTP response
// body of every cart operation and the payload broadcast to all session
// subscribers — clients replace their local state with it wholesale and
// discard any copy whose version is older than what they already hold.
type CartResponse struct {
	SessionID string             `json:"session_id"`
	StoreID   string             `json:"store_id"`
	Currency  string             `json:"currency"`
	Version   int64              `json:"version"`
	Items     []CartItemResponse `json:"items"`
	SubTotal  decimal.Decimal    `json:"sub_total"`
	UpdatedAt string             `json:"updated_at"`
}
