package service

import (
	"context"
	"time"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/model"
	"foodhouse/internal/repository"
	"foodhouse/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	RecordPayment(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.RecordPaymentRequest) (*dto.OrderResponse, error)
	CreateRefund(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.CreateRefundRequest) (*dto.OrderResponse, error)
	VoidPayment(ctx context.Context, actor Actor, orderID, paymentID uuid.UUID) (*dto.OrderResponse, error)
}

type paymentService struct {
	repo       repository.OrderRepository
	dispatcher *worker.Dispatcher
}

func NewPaymentService(repo repository.OrderRepository, dispatcher *worker.Dispatcher) PaymentService {
	return &paymentService{repo: repo, dispatcher: dispatcher}
}

// RecordPayment validates the amount against the remaining balance and
// appends an immutable payment record, all under the order row lock — two
// concurrent payments can never both pass the check against a stale balance.
func (s *paymentService) RecordPayment(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.RecordPaymentRequest) (*dto.OrderResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperr.InvalidAmount("payment amount must be positive")
	}
	method := model.PaymentMethod(req.Method)
	if !method.Valid() {
		return nil, apperr.Validation("unknown payment method %q", req.Method)
	}

	// Change is computed from the tendered cash, never persisted against the
	// order. Tendering less than the recorded amount is a till mistake.
	var change *decimal.Decimal
	if req.AmountTendered != nil {
		if req.AmountTendered.LessThan(req.Amount) {
			return nil, apperr.InvalidAmount("amount tendered is less than the payment amount")
		}
		c := req.AmountTendered.Sub(req.Amount)
		change = &c
	}

	var order *model.Order
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return apperr.NotFound("order %s not found", orderID)
		}
		if order.Status == model.StatusCancelled {
			return apperr.StateTransition("cannot pay a cancelled order")
		}

		remaining := order.RemainingBalance()
		if req.Amount.GreaterThan(remaining) {
			return apperr.AmountExceedsBalance("payment %s exceeds remaining balance %s", req.Amount, remaining)
		}

		payment := model.Payment{
			ID:            uuid.New(),
			OrderID:       order.ID,
			Amount:        req.Amount,
			Method:        method,
			TransactionID: req.TransactionID,
			Notes:         req.Notes,
			RecordedBy:    &actor.ID,
		}
		if err := s.repo.CreatePayment(ctx, tx, &payment); err != nil {
			return err
		}
		order.Payments = append(order.Payments, payment)

		recomputeTotalPaid(order)
		return s.repo.Save(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	if order.IsPaidInFull() && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			OrderID:       order.ID.String(),
			CustomerEmail: order.CustomerEmail,
		})
	}

	resp := orderToResponse(order)
	if change != nil && len(resp.Payments) > 0 {
		resp.Payments[len(resp.Payments)-1].Change = change
	}
	return resp, nil
}

// CreateRefund appends an immutable refund bounded by the order's current
// totalPaid. An over-refund is rejected with no state change.
func (s *paymentService) CreateRefund(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.CreateRefundRequest) (*dto.OrderResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apperr.InvalidAmount("refund amount must be positive")
	}

	var order *model.Order
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return apperr.NotFound("order %s not found", orderID)
		}

		if req.Amount.GreaterThan(order.TotalPaid) {
			return apperr.AmountExceedsBalance("refund %s exceeds total paid %s", req.Amount, order.TotalPaid)
		}

		refund := model.Refund{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Amount:    req.Amount,
			Reason:    req.Reason,
			CreatedBy: &actor.ID,
		}
		if err := s.repo.CreateRefund(ctx, tx, &refund); err != nil {
			return err
		}
		order.Refunds = append(order.Refunds, refund)

		recomputeTotalPaid(order)
		return s.repo.Save(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("order_id", orderID.String()).
		Str("amount", req.Amount.String()).
		Str("actor_id", actor.ID.String()).
		Msg("refund recorded")

	return orderToResponse(order), nil
}

// VoidPayment flags a payment record as voided (the row itself is never
// mutated financially or deleted) and recomputes totalPaid from the
// surviving records.
func (s *paymentService) VoidPayment(ctx context.Context, actor Actor, orderID, paymentID uuid.UUID) (*dto.OrderResponse, error) {
	var order *model.Order
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return apperr.NotFound("order %s not found", orderID)
		}

		var payment *model.Payment
		for i := range order.Payments {
			if order.Payments[i].ID == paymentID {
				payment = &order.Payments[i]
				break
			}
		}
		if payment == nil {
			return apperr.NotFound("payment %s not found on order %s", paymentID, orderID)
		}
		if payment.Voided {
			return apperr.Conflict("payment %s is already voided", paymentID)
		}

		now := time.Now().UTC()
		payment.Voided = true
		payment.VoidedBy = &actor.ID
		payment.VoidedAt = &now
		if err := s.repo.SavePayment(ctx, tx, payment); err != nil {
			return err
		}

		recomputeTotalPaid(order)
		return s.repo.Save(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Warn().
		Str("order_id", orderID.String()).
		Str("payment_id", paymentID.String()).
		Str("actor_id", actor.ID.String()).
		Msg("payment voided")

	return orderToResponse(order), nil
}

// recomputeTotalPaid re-derives totalPaid = Σ non-voided payments − Σ refunds.
// It is never incremented in place; the derivation from the records is the
// source of truth.
func recomputeTotalPaid(o *model.Order) {
	total := decimal.Zero
	for i := range o.Payments {
		if !o.Payments[i].Voided {
			total = total.Add(o.Payments[i].Amount)
		}
	}
	for i := range o.Refunds {
		total = total.Sub(o.Refunds[i].Amount)
	}
	o.TotalPaid = total
}
