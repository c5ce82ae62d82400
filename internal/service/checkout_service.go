package service

import (
	"context"
	"time"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/model"
	"foodhouse/internal/money"
	"foodhouse/internal/repository"
	"foodhouse/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutService interface {
	// Checkout converts a cart session into an order and clears the cart in
	// the same transaction. actorID is nil for customer self-checkout.
	Checkout(ctx context.Context, actorID *uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error)
	// QuickSale creates an order directly from an item list, bypassing a cart.
	QuickSale(ctx context.Context, actorID uuid.UUID, req dto.QuickSaleRequest) (*dto.OrderResponse, error)
}

type checkoutService struct {
	orders     repository.OrderRepository
	carts      repository.CartRepository
	menus      repository.MenuRepository
	stores     repository.StoreRepository
	publisher  CartPublisher
	dispatcher *worker.Dispatcher
}

func NewCheckoutService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	menus repository.MenuRepository,
	stores repository.StoreRepository,
	publisher CartPublisher,
	dispatcher *worker.Dispatcher,
) CheckoutService {
	return &checkoutService{
		orders:     orders,
		carts:      carts,
		menus:      menus,
		stores:     stores,
		publisher:  publisher,
		dispatcher: dispatcher,
	}
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// 1. Replay check on the idempotency key — a retry returns the original order.
// 2. Load the cart; empty carts are rejected.
// 3. Re-resolve every line against the menu (prices re-snapshotted, stale cart
//    prices are never trusted).
// 4. Snapshot the store's current VAT and service-charge rates.
// 5. BEGIN TX: next order number, create order + items, clear cart, COMMIT.
// 6. Broadcast the cleared cart; enqueue the kitchen event.

func (s *checkoutService) Checkout(ctx context.Context, actorID *uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apperr.Validation("invalid session_id")
	}

	if req.IdempotencyKey != nil {
		if existing, err := s.orders.FindByIdempotencyKey(ctx, *req.IdempotencyKey); err == nil {
			return orderToResponse(existing), nil
		}
	}

	session, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}
	if len(session.Items) == 0 {
		return nil, apperr.EmptyCart()
	}

	store, err := s.stores.FindByID(ctx, session.StoreID)
	if err != nil {
		return nil, apperr.NotFound("store %s not found", session.StoreID)
	}

	// Re-validate and re-price every line outside the transaction. Any
	// unavailable item aborts the whole checkout with the cart untouched.
	lines := make([]orderLine, 0, len(session.Items))
	for i := range session.Items {
		item := &session.Items[i]
		selections := make([]dto.OptionSelection, 0, len(item.Options))
		for _, o := range item.Options {
			selections = append(selections, dto.OptionSelection{OptionID: o.OptionID.String()})
		}
		resolved, err := resolveLine(ctx, s.menus, item.MenuItemID, selections)
		if err != nil {
			return nil, err
		}
		lines = append(lines, orderLine{resolved: resolved, quantity: item.Quantity, notes: item.Notes})
	}

	var order model.Order
	txErr := s.orders.InTx(ctx, func(tx *gorm.DB) error {
		// Lock the session row so a concurrent cart mutation or a racing
		// duplicate checkout serializes behind this transaction.
		locked, err := s.carts.FindBySessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return apperr.NotFound("session %s not found", sessionID)
		}
		if len(locked.Items) == 0 {
			return apperr.EmptyCart()
		}

		order, err = s.createOrder(ctx, tx, createOrderParams{
			storeID:        store.ID,
			sessionID:      &sessionID,
			orderType:      model.OrderType(req.OrderType),
			lines:          lines,
			vatRate:        store.VatRate,
			serviceRate:    store.ServiceChargeRate,
			idempotencyKey: req.IdempotencyKey,
			customerEmail:  req.CustomerEmail,
			createdBy:      actorID,
		})
		if err != nil {
			return err
		}

		if err := s.carts.DeleteItems(ctx, tx, sessionID); err != nil {
			return err
		}
		locked.Items = nil
		locked.Version++
		return s.carts.SaveSession(ctx, tx, locked)
	})
	if txErr != nil {
		// A unique violation on the idempotency key means a concurrent retry
		// won the race — return its order instead of the error.
		if req.IdempotencyKey != nil {
			if existing, ferr := s.orders.FindByIdempotencyKey(ctx, *req.IdempotencyKey); ferr == nil {
				return orderToResponse(existing), nil
			}
		}
		return nil, txErr
	}

	if s.publisher != nil {
		cleared, err := s.carts.FindBySession(ctx, sessionID)
		if err == nil {
			s.publisher.PublishCartCleared(sessionID, cartToResponse(cleared))
		}
	}
	s.enqueueKitchen(ctx, &order)

	return orderToResponse(&order), nil
}

// ── QuickSale ─────────────────────────────────────────────────────────────────

func (s *checkoutService) QuickSale(ctx context.Context, actorID uuid.UUID, req dto.QuickSaleRequest) (*dto.OrderResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apperr.Validation("invalid store_id")
	}

	if req.IdempotencyKey != nil {
		if existing, err := s.orders.FindByIdempotencyKey(ctx, *req.IdempotencyKey); err == nil {
			return orderToResponse(existing), nil
		}
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, apperr.NotFound("store %s not found", storeID)
	}

	lines := make([]orderLine, 0, len(req.Items))
	for _, item := range req.Items {
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, apperr.Validation("invalid menu_item_id")
		}
		resolved, err := resolveLine(ctx, s.menus, menuItemID, item.Options)
		if err != nil {
			return nil, err
		}
		lines = append(lines, orderLine{resolved: resolved, quantity: item.Quantity, notes: item.Notes})
	}

	var order model.Order
	txErr := s.orders.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		order, err = s.createOrder(ctx, tx, createOrderParams{
			storeID:        store.ID,
			sessionID:      nil,
			orderType:      model.OrderType(req.OrderType),
			lines:          lines,
			vatRate:        store.VatRate,
			serviceRate:    store.ServiceChargeRate,
			idempotencyKey: req.IdempotencyKey,
			customerEmail:  req.CustomerEmail,
			createdBy:      &actorID,
		})
		return err
	})
	if txErr != nil {
		if req.IdempotencyKey != nil {
			if existing, ferr := s.orders.FindByIdempotencyKey(ctx, *req.IdempotencyKey); ferr == nil {
				return orderToResponse(existing), nil
			}
		}
		return nil, txErr
	}

	s.enqueueKitchen(ctx, &order)
	return orderToResponse(&order), nil
}

// ── Shared order construction ─────────────────────────────────────────────────

type orderLine struct {
	resolved *resolvedLine
	quantity int
	notes    string
}

type createOrderParams struct {
	storeID        uuid.UUID
	sessionID      *uuid.UUID
	orderType      model.OrderType
	lines          []orderLine
	vatRate        decimal.Decimal
	serviceRate    decimal.Decimal
	idempotencyKey *string
	customerEmail  *string
	createdBy      *uuid.UUID
}

func (s *checkoutService) createOrder(ctx context.Context, tx *gorm.DB, p createOrderParams) (model.Order, error) {
	number, err := s.orders.NextOrderNumber(ctx, tx, p.storeID)
	if err != nil {
		return model.Order{}, err
	}

	subTotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(p.lines))
	for _, line := range p.lines {
		item := model.OrderItem{
			ID:         uuid.New(),
			MenuItemID: line.resolved.menuItemID,
			Name:       line.resolved.name,
			BasePrice:  line.resolved.basePrice,
			FinalPrice: line.resolved.finalPrice,
			Quantity:   line.quantity,
			Notes:      line.notes,
		}
		for _, o := range line.resolved.options {
			item.Customizations = append(item.Customizations, model.OrderItemCustomization{
				ID:              uuid.New(),
				OrderItemID:     item.ID,
				OptionID:        o.optionID,
				Name:            o.name,
				AdditionalPrice: o.additionalPrice,
			})
		}
		subTotal = subTotal.Add(item.LineTotal())
		items = append(items, item)
	}
	subTotal = money.Round(subTotal)

	vatAmount := money.ApplyRate(subTotal, p.vatRate)
	serviceAmount := money.ApplyRate(subTotal, p.serviceRate)

	order := model.Order{
		ID:          uuid.New(),
		OrderNumber: number,
		StoreID:     p.storeID,
		SessionID:   p.sessionID,
		Status:      model.StatusPending,
		OrderType:   p.orderType,

		SubTotal:                  subTotal,
		VatRateSnapshot:           p.vatRate,
		ServiceChargeRateSnapshot: p.serviceRate,
		VatAmount:                 vatAmount,
		ServiceChargeAmount:       serviceAmount,
		GrandTotal:                subTotal.Add(vatAmount).Add(serviceAmount),

		DiscountAmount: decimal.Zero,
		TotalPaid:      decimal.Zero,

		IdempotencyKey: p.idempotencyKey,
		CustomerEmail:  p.customerEmail,
		CreatedBy:      p.createdBy,

		Items: items,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := s.orders.Create(ctx, tx, &order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (s *checkoutService) enqueueKitchen(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueKitchenEvent(ctx, worker.KitchenEventPayload{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		StoreID:     order.StoreID.String(),
		Status:      string(order.Status),
		OccurredAt:  time.Now().UTC(),
	})
}
