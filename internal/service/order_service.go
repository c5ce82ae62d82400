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
	"gorm.io/gorm"
)

// Actor identifies the staff member performing a privileged operation.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

type OrderService interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.UpdateStatusRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	repo       repository.OrderRepository
	dispatcher *worker.Dispatcher
}

func NewOrderService(repo repository.OrderRepository, dispatcher *worker.Dispatcher) OrderService {
	return &orderService{repo: repo, dispatcher: dispatcher}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("order %s not found", id)
	}
	return orderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateStatus moves the order through the kitchen state machine. Single-step
// transitions are open to any staff role; forward skips need an explicit
// override flag from ADMIN or above and are always logged. Cancelling is
// rejected while any money is still held against the order.
func (s *orderService) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.UpdateStatusRequest) (*dto.OrderResponse, error) {
	to := model.OrderStatus(req.Status)

	var order *model.Order
	var from model.OrderStatus
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return apperr.NotFound("order %s not found", orderID)
		}
		from = order.Status

		if from == to {
			return apperr.StateTransition("order is already %s", from)
		}

		switch {
		case model.CanTransition(from, to):
			// single-step move
		case req.Override && model.CanOverride(from, to):
			if !actor.Role.AtLeast(model.RoleAdmin) {
				return apperr.Forbidden("status override requires ADMIN role")
			}
		default:
			return apperr.StateTransition("cannot move order from %s to %s", from, to)
		}

		if to == model.StatusCancelled && order.TotalPaid.IsPositive() {
			return apperr.StateTransition("cannot cancel order with %s still paid; refund first", order.TotalPaid)
		}

		rows, err := s.repo.UpdateStatusGuard(ctx, tx, orderID, from, to)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.Conflict("order %s changed state concurrently", orderID)
		}
		order.Status = to
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if req.Override {
		log.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Str("actor_id", actor.ID.String()).
			Str("role", string(actor.Role)).
			Str("reason", req.Reason).
			Msg("order status override")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueKitchenEvent(ctx, worker.KitchenEventPayload{
			OrderID:     order.ID.String(),
			OrderNumber: order.OrderNumber,
			StoreID:     order.StoreID.String(),
			Status:      string(order.Status),
			Override:    req.Override,
			OccurredAt:  time.Now().UTC(),
		})
	}

	return orderToResponse(order), nil
}
