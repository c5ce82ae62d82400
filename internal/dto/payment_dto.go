package dto

import "github.com/shopspring/decimal"

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD MOBILE_PAYMENT OTHER"`
	TransactionID *string         `json:"transaction_id"`
	Notes         *string         `json:"notes" validate:"omitempty,max=500"`
	// AmountTendered: optional cash handed over. The response's change field
	// is computed from it; only Amount is recorded against the order.
	AmountTendered *decimal.Decimal `json:"amount_tendered"`
}

type CreateRefundRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Reason *string         `json:"reason" validate:"omitempty,max=500"`
}
