package dto

import "github.com/shopspring/decimal"

// ─── Checkout ────────────────────────────────────────────────────────────────

type CheckoutRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	OrderType string `json:"order_type" validate:"required,oneof=DINE_IN TAKEOUT"`
	// IdempotencyKey makes checkout retries safe: a replay returns the order
	// created by the first attempt instead of a duplicate.
	IdempotencyKey *string `json:"idempotency_key" validate:"omitempty,uuid"`
	// CustomerEmail: optional — when present, the receipt worker mails the
	// PDF once the order is paid in full.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type QuickSaleItem struct {
	MenuItemID string            `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int               `json:"quantity"     validate:"required,min=1"`
	Notes      string            `json:"notes"        validate:"max=500"`
	Options    []OptionSelection `json:"options"      validate:"dive"`
}

// QuickSaleRequest creates an order directly from an item list, bypassing a
// cart session (staff counter sales).
type QuickSaleRequest struct {
	StoreID        string          `json:"store_id"   validate:"required,uuid"`
	OrderType      string          `json:"order_type" validate:"required,oneof=DINE_IN TAKEOUT"`
	Items          []QuickSaleItem `json:"items"      validate:"required,min=1,dive"`
	IdempotencyKey *string         `json:"idempotency_key" validate:"omitempty,uuid"`
	CustomerEmail  *string         `json:"customer_email"  validate:"omitempty,email"`
}

// ─── Status ──────────────────────────────────────────────────────────────────

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PREPARING READY COMPLETED CANCELLED"`
	// Override requests a forward skip past intermediate states; ADMIN or
	// OWNER only, and always logged.
	Override bool   `json:"override"`
	Reason   string `json:"reason" validate:"max=200"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type OrderFilter struct {
	StoreID string `form:"store_id" validate:"omitempty,uuid"`
	Date    string `form:"date"`   // YYYY-MM-DD; empty = all
	Status  string `form:"status"` // PENDING … CANCELLED | all
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderCustomizationResponse struct {
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

type OrderItemResponse struct {
	ID             string                       `json:"id"`
	Name           string                       `json:"name"`
	BasePrice      decimal.Decimal              `json:"base_price"`
	FinalPrice     decimal.Decimal              `json:"final_price"`
	Quantity       int                          `json:"quantity"`
	Notes          string                       `json:"notes,omitempty"`
	LineTotal      decimal.Decimal              `json:"line_total"`
	Customizations []OrderCustomizationResponse `json:"customizations"`
}

type DiscountResponse struct {
	Type   string          `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	// AppliedBy is the staff id; AppliedByName is its display name, resolved
	// from the staff account when one exists.
	AppliedBy     string `json:"applied_by"`
	AppliedByName string `json:"applied_by_name,omitempty"`
	AppliedAt     string `json:"applied_at"`
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Voided        bool            `json:"voided"`
	CreatedAt     string          `json:"created_at"`
	// Change is only populated on the recording response for cash tenders —
	// it is a display concern, never stored against the order.
	Change *decimal.Decimal `json:"change,omitempty"`
}

type RefundResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    *string         `json:"reason,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type OrderResponse struct {
	ID          string  `json:"id"`
	OrderNumber int     `json:"order_number"`
	StoreID     string  `json:"store_id"`
	SessionID   *string `json:"session_id,omitempty"`
	Status      string  `json:"status"`
	OrderType   string  `json:"order_type"`

	SubTotal                  decimal.Decimal `json:"sub_total"`
	VatRateSnapshot           decimal.Decimal `json:"vat_rate_snapshot"`
	ServiceChargeRateSnapshot decimal.Decimal `json:"service_charge_rate_snapshot"`
	VatAmount                 decimal.Decimal `json:"vat_amount"`
	ServiceChargeAmount       decimal.Decimal `json:"service_charge_amount"`
	GrandTotal                decimal.Decimal `json:"grand_total"`

	Discount *DiscountResponse `json:"discount,omitempty"`

	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	IsPaidInFull     bool            `json:"is_paid_in_full"`

	Items    []OrderItemResponse `json:"items"`
	Payments []PaymentResponse   `json:"payments"`
	Refunds  []RefundResponse    `json:"refunds"`

	CreatedAt string `json:"created_at"`
}
