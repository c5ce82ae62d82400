package service

import (
	"context"
	"time"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/model"
	"foodhouse/internal/money"
	"foodhouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tier boundaries as effective percentages of the order's subtotal.
// The 10% and 50% bounds are inclusive for the Medium tier.
var (
	tierMediumFloor = decimal.NewFromInt(10)
	tierLargeFloor  = decimal.NewFromInt(50)
	hundred         = decimal.NewFromInt(100)
)

type DiscountService interface {
	ApplyDiscount(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.ApplyDiscountRequest) (*dto.OrderResponse, error)
	RemoveDiscount(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.OrderResponse, error)
}

type discountService struct {
	repo  repository.OrderRepository
	users repository.UserRepository
}

func NewDiscountService(repo repository.OrderRepository, users repository.UserRepository) DiscountService {
	return &discountService{repo: repo, users: users}
}

// staffName resolves the display name behind an audit id. A missing or
// deactivated account yields an empty name, never an error: the audit trail
// keeps working when the account is gone.
func (s *discountService) staffName(ctx context.Context, id uuid.UUID) string {
	if s.users == nil {
		return ""
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil || !u.Active {
		return ""
	}
	return u.Name
}

// requiredRole maps an effective discount percentage to the minimum role that
// may apply it. The percentage arrives unrounded so 50.01 lands above the
// Medium ceiling.
func requiredRole(effectivePct decimal.Decimal) model.Role {
	switch {
	case effectivePct.GreaterThan(tierLargeFloor):
		return model.RoleOwner
	case effectivePct.GreaterThanOrEqual(tierMediumFloor):
		return model.RoleAdmin
	default:
		return model.RoleCashier
	}
}

// ApplyDiscount replaces any prior discount atomically. The tier is computed
// from the effective percentage against the current subtotal regardless of
// whether the request expresses the discount as PERCENTAGE or FIXED_AMOUNT.
func (s *discountService) ApplyDiscount(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.ApplyDiscountRequest) (*dto.OrderResponse, error) {
	dtype := model.DiscountType(req.Type)

	var order *model.Order
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return apperr.NotFound("order %s not found", orderID)
		}
		if order.Status.Terminal() {
			return apperr.StateTransition("cannot modify discount on a %s order", order.Status)
		}

		var amount decimal.Decimal
		switch dtype {
		case model.DiscountPercentage:
			if req.Value.IsNegative() || req.Value.GreaterThan(hundred) {
				return apperr.Validation("percentage discount must be between 0 and 100")
			}
			amount = money.Percentage(order.SubTotal, req.Value)
		case model.DiscountFixedAmount:
			if req.Value.IsNegative() || req.Value.GreaterThan(order.SubTotal) {
				return apperr.Validation("fixed discount must be between 0 and the order subtotal")
			}
			amount = money.Round(req.Value)
		default:
			return apperr.Validation("unknown discount type %q", req.Type)
		}

		effectivePct := money.RatioPct(amount, order.SubTotal)
		if need := requiredRole(effectivePct); !actor.Role.AtLeast(need) {
			return apperr.Forbidden("discount of %s%% requires %s role", effectivePct.Round(2), need)
		}

		now := time.Now().UTC()
		value := req.Value
		reason := req.Reason
		order.DiscountType = &dtype
		order.DiscountValue = &value
		order.DiscountAmount = amount
		order.DiscountReason = &reason
		order.DiscountAppliedBy = &actor.ID
		order.DiscountAppliedAt = &now
		recomputeGrandTotal(order)

		return s.repo.Save(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("order_id", orderID.String()).
		Str("type", req.Type).
		Str("amount", order.DiscountAmount.String()).
		Str("actor_id", actor.ID.String()).
		Str("role", string(actor.Role)).
		Msg("discount applied")

	resp := orderToResponse(order)
	if resp.Discount != nil {
		resp.Discount.AppliedByName = s.staffName(ctx, actor.ID)
	}
	return resp, nil
}

// RemoveDiscount requires ADMIN or above regardless of the original
// discount's tier.
func (s *discountService) RemoveDiscount(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.OrderResponse, error) {
	if !actor.Role.AtLeast(model.RoleAdmin) {
		return nil, apperr.Forbidden("removing a discount requires ADMIN role")
	}

	var order *model.Order
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return apperr.NotFound("order %s not found", orderID)
		}
		if order.Status.Terminal() {
			return apperr.StateTransition("cannot modify discount on a %s order", order.Status)
		}
		if order.DiscountType == nil {
			return apperr.NotFound("order %s has no discount", orderID)
		}

		order.DiscountType = nil
		order.DiscountValue = nil
		order.DiscountAmount = decimal.Zero
		order.DiscountReason = nil
		order.DiscountAppliedBy = nil
		order.DiscountAppliedAt = nil
		recomputeGrandTotal(order)

		return s.repo.Save(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("order_id", orderID.String()).
		Str("actor_id", actor.ID.String()).
		Str("role", string(actor.Role)).
		Msg("discount removed")

	return orderToResponse(order), nil
}

// recomputeGrandTotal re-derives the invariant
// grandTotal = subTotal + vat + serviceCharge − discount, floored at zero.
func recomputeGrandTotal(o *model.Order) {
	total := o.SubTotal.Add(o.VatAmount).Add(o.ServiceChargeAmount).Sub(o.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.GrandTotal = total
}
