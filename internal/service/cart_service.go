package service

import (
	"context"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/model"
	"foodhouse/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartPublisher is the fan-out side of the cart sync protocol. The ws.Hub
// implements it; unit tests substitute a recorder.
type CartPublisher interface {
	PublishCart(sessionID uuid.UUID, cart *dto.CartResponse)
	PublishCartCleared(sessionID uuid.UUID, cart *dto.CartResponse)
}

type CartService interface {
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CartResponse, error)
	GetCart(ctx context.Context, sessionID uuid.UUID) (*dto.CartResponse, error)
	AddItem(ctx context.Context, sessionID uuid.UUID, req dto.AddItemRequest) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, sessionID, itemID uuid.UUID, req dto.UpdateItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, sessionID, itemID uuid.UUID, expectedVersion *int64) (*dto.CartResponse, error)
	ClearCart(ctx context.Context, sessionID uuid.UUID) (*dto.CartResponse, error)
}

type cartService struct {
	repo      repository.CartRepository
	menus     repository.MenuRepository
	stores    repository.StoreRepository
	publisher CartPublisher
}

func NewCartService(repo repository.CartRepository, menus repository.MenuRepository, stores repository.StoreRepository, publisher CartPublisher) CartService {
	return &cartService{repo: repo, menus: menus, stores: stores, publisher: publisher}
}

func (s *cartService) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CartResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apperr.Validation("invalid store_id")
	}
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, apperr.NotFound("store %s not found", storeID)
	}

	session := &model.CartSession{
		ID:       uuid.New(),
		StoreID:  store.ID,
		Currency: store.Currency,
		Version:  0,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return cartToResponse(session), nil
}

func (s *cartService) GetCart(ctx context.Context, sessionID uuid.UUID) (*dto.CartResponse, error) {
	session, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}
	return cartToResponse(session), nil
}

// AddItem appends a new line to the cart. Identical add requests produce
// separate lines — quantity merging is the client's decision, expressed via
// updateItem on an existing line.
func (s *cartService) AddItem(ctx context.Context, sessionID uuid.UUID, req dto.AddItemRequest) (*dto.CartResponse, error) {
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return nil, apperr.Validation("invalid menu_item_id")
	}

	// Resolve against the menu outside the transaction; menu data is
	// read-only here and failure must leave the cart untouched.
	line, err := resolveLine(ctx, s.menus, menuItemID, req.Options)
	if err != nil {
		return nil, err
	}

	var resp *dto.CartResponse
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		session, err := s.repo.FindBySessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return apperr.NotFound("session %s not found", sessionID)
		}
		if err := checkVersion(session, req.ExpectedVersion); err != nil {
			return err
		}

		item := model.CartItem{
			ID:            uuid.New(),
			CartSessionID: session.ID,
			MenuItemID:    line.menuItemID,
			Name:          line.name,
			BasePrice:     line.basePrice,
			FinalPrice:    line.finalPrice,
			Quantity:      req.Quantity,
			Notes:         req.Notes,
		}
		for _, o := range line.options {
			item.Options = append(item.Options, model.CartItemOption{
				ID:              uuid.New(),
				CartItemID:      item.ID,
				OptionID:        o.optionID,
				GroupID:         o.groupID,
				Name:            o.name,
				AdditionalPrice: o.additionalPrice,
			})
		}
		if err := s.repo.CreateItem(ctx, tx, &item); err != nil {
			return err
		}

		session.Items = append(session.Items, item)
		return s.bumpVersion(ctx, tx, session, &resp)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(sessionID, resp)
	return resp, nil
}

// UpdateItem changes quantity and notes on an existing line. Quantity 0
// removes the line — a zero-quantity row never survives.
func (s *cartService) UpdateItem(ctx context.Context, sessionID, itemID uuid.UUID, req dto.UpdateItemRequest) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		session, err := s.repo.FindBySessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return apperr.NotFound("session %s not found", sessionID)
		}
		if err := checkVersion(session, req.ExpectedVersion); err != nil {
			return err
		}

		idx := -1
		for i := range session.Items {
			if session.Items[i].ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.NotFound("cart item %s not found", itemID)
		}

		if req.Quantity == 0 {
			if err := s.repo.DeleteItem(ctx, tx, itemID); err != nil {
				return err
			}
			session.Items = append(session.Items[:idx], session.Items[idx+1:]...)
		} else {
			item := &session.Items[idx]
			item.Quantity = req.Quantity
			item.Notes = req.Notes
			if err := s.repo.SaveItem(ctx, tx, item); err != nil {
				return err
			}
		}

		return s.bumpVersion(ctx, tx, session, &resp)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(sessionID, resp)
	return resp, nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, itemID uuid.UUID, expectedVersion *int64) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		session, err := s.repo.FindBySessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return apperr.NotFound("session %s not found", sessionID)
		}
		if err := checkVersion(session, expectedVersion); err != nil {
			return err
		}

		idx := -1
		for i := range session.Items {
			if session.Items[i].ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.NotFound("cart item %s not found", itemID)
		}
		if err := s.repo.DeleteItem(ctx, tx, itemID); err != nil {
			return err
		}
		session.Items = append(session.Items[:idx], session.Items[idx+1:]...)

		return s.bumpVersion(ctx, tx, session, &resp)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(sessionID, resp)
	return resp, nil
}

// ClearCart empties the cart but keeps the session row alive so connected
// devices keep receiving broadcasts for it.
func (s *cartService) ClearCart(ctx context.Context, sessionID uuid.UUID) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	txErr := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		session, err := s.repo.FindBySessionForUpdate(ctx, tx, sessionID)
		if err != nil {
			return apperr.NotFound("session %s not found", sessionID)
		}
		if err := s.repo.DeleteItems(ctx, tx, sessionID); err != nil {
			return err
		}
		session.Items = nil
		return s.bumpVersion(ctx, tx, session, &resp)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.publisher != nil {
		s.publisher.PublishCartCleared(sessionID, resp)
	}
	return resp, nil
}

// bumpVersion advances the session version by exactly 1, persists the
// session row, and captures the authoritative response while still inside
// the transaction.
func (s *cartService) bumpVersion(ctx context.Context, tx *gorm.DB, session *model.CartSession, out **dto.CartResponse) error {
	session.Version++
	if err := s.repo.SaveSession(ctx, tx, session); err != nil {
		return err
	}
	*out = cartToResponse(session)
	return nil
}

func (s *cartService) publish(sessionID uuid.UUID, resp *dto.CartResponse) {
	if s.publisher != nil {
		s.publisher.PublishCart(sessionID, resp)
	}
}

// checkVersion enforces client-side optimistic concurrency when the client
// opted in by sending expected_version.
func checkVersion(session *model.CartSession, expected *int64) error {
	if expected != nil && *expected != session.Version {
		return apperr.Conflict("cart version mismatch: expected %d, have %d", *expected, session.Version)
	}
	return nil
}
