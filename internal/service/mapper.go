package service

import (
	"time"

	"foodhouse/internal/dto"
	"foodhouse/internal/model"

	"github.com/shopspring/decimal"
)

func cartToResponse(s *model.CartSession) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(s.Items))
	subTotal := decimal.Zero
	for i := range s.Items {
		item := &s.Items[i]
		opts := make([]dto.CartOptionResponse, 0, len(item.Options))
		for _, o := range item.Options {
			opts = append(opts, dto.CartOptionResponse{
				OptionID:        o.OptionID.String(),
				Name:            o.Name,
				AdditionalPrice: o.AdditionalPrice,
			})
		}
		line := item.LineTotal()
		subTotal = subTotal.Add(line)
		items = append(items, dto.CartItemResponse{
			ID:         item.ID.String(),
			MenuItemID: item.MenuItemID.String(),
			Name:       item.Name,
			BasePrice:  item.BasePrice,
			FinalPrice: item.FinalPrice,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			LineTotal:  line,
			Options:    opts,
		})
	}
	return &dto.CartResponse{
		SessionID: s.ID.String(),
		StoreID:   s.StoreID.String(),
		Currency:  s.Currency,
		Version:   s.Version,
		Items:     items,
		SubTotal:  subTotal,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		custs := make([]dto.OrderCustomizationResponse, 0, len(item.Customizations))
		for _, c := range item.Customizations {
			custs = append(custs, dto.OrderCustomizationResponse{
				Name:            c.Name,
				AdditionalPrice: c.AdditionalPrice,
			})
		}
		items = append(items, dto.OrderItemResponse{
			ID:             item.ID.String(),
			Name:           item.Name,
			BasePrice:      item.BasePrice,
			FinalPrice:     item.FinalPrice,
			Quantity:       item.Quantity,
			Notes:          item.Notes,
			LineTotal:      item.LineTotal(),
			Customizations: custs,
		})
	}

	payments := make([]dto.PaymentResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, dto.PaymentResponse{
			ID:            p.ID.String(),
			Amount:        p.Amount,
			Method:        string(p.Method),
			TransactionID: p.TransactionID,
			Notes:         p.Notes,
			Voided:        p.Voided,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		})
	}

	refunds := make([]dto.RefundResponse, 0, len(o.Refunds))
	for _, r := range o.Refunds {
		refunds = append(refunds, dto.RefundResponse{
			ID:        r.ID.String(),
			Amount:    r.Amount,
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}

	var discount *dto.DiscountResponse
	if o.DiscountType != nil {
		d := &dto.DiscountResponse{
			Type:   string(*o.DiscountType),
			Amount: o.DiscountAmount,
		}
		if o.DiscountValue != nil {
			d.Value = *o.DiscountValue
		}
		if o.DiscountReason != nil {
			d.Reason = *o.DiscountReason
		}
		if o.DiscountAppliedBy != nil {
			d.AppliedBy = o.DiscountAppliedBy.String()
		}
		if o.DiscountAppliedAt != nil {
			d.AppliedAt = o.DiscountAppliedAt.Format(time.RFC3339)
		}
		discount = d
	}

	var sessionID *string
	if o.SessionID != nil {
		s := o.SessionID.String()
		sessionID = &s
	}

	return &dto.OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		StoreID:     o.StoreID.String(),
		SessionID:   sessionID,
		Status:      string(o.Status),
		OrderType:   string(o.OrderType),

		SubTotal:                  o.SubTotal,
		VatRateSnapshot:           o.VatRateSnapshot,
		ServiceChargeRateSnapshot: o.ServiceChargeRateSnapshot,
		VatAmount:                 o.VatAmount,
		ServiceChargeAmount:       o.ServiceChargeAmount,
		GrandTotal:                o.GrandTotal,

		Discount: discount,

		TotalPaid:        o.TotalPaid,
		RemainingBalance: o.RemainingBalance(),
		IsPaidInFull:     o.IsPaidInFull(),

		Items:    items,
		Payments: payments,
		Refunds:  refunds,

		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}
