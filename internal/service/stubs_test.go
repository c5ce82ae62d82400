package service_test

import (
	"context"
	"errors"
	"sync"

	"foodhouse/internal/dto"
	"foodhouse/internal/model"
	"foodhouse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. InTx serializes with a mutex, mirroring the row
// locks the real repositories take, so concurrency tests exercise the same
// "check then write under lock" guarantees the database gives the services.
// Methods that accept a tx are only ever called inside InTx and do not lock.

type stubCartRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*model.CartSession
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{sessions: make(map[uuid.UUID]*model.CartSession)}
}

func cloneSession(s *model.CartSession) *model.CartSession {
	c := *s
	c.Items = make([]model.CartItem, len(s.Items))
	for i, item := range s.Items {
		item.Options = append([]model.CartItemOption(nil), item.Options...)
		c.Items[i] = item
	}
	return &c
}

func (r *stubCartRepo) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(nil)
}

func (r *stubCartRepo) Create(_ context.Context, s *model.CartSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *stubCartRepo) FindBySession(_ context.Context, id uuid.UUID) (*model.CartSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return cloneSession(s), nil
}

func (r *stubCartRepo) FindBySessionForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.CartSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return cloneSession(s), nil
}

func (r *stubCartRepo) SaveSession(_ context.Context, _ *gorm.DB, s *model.CartSession) error {
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *stubCartRepo) CreateItem(_ context.Context, _ *gorm.DB, _ *model.CartItem) error { return nil }
func (r *stubCartRepo) SaveItem(_ context.Context, _ *gorm.DB, _ *model.CartItem) error   { return nil }
func (r *stubCartRepo) DeleteItem(_ context.Context, _ *gorm.DB, _ uuid.UUID) error       { return nil }
func (r *stubCartRepo) DeleteItems(_ context.Context, _ *gorm.DB, _ uuid.UUID) error      { return nil }

var _ repository.CartRepository = (*stubCartRepo)(nil)

type stubOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*model.Order
	idemIdx  map[string]uuid.UUID
	counters map[uuid.UUID]int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uuid.UUID]*model.Order),
		idemIdx:  make(map[string]uuid.UUID),
		counters: make(map[uuid.UUID]int),
	}
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = append([]model.OrderItem(nil), o.Items...)
	c.Payments = append([]model.Payment(nil), o.Payments...)
	c.Refunds = append([]model.Refund(nil), o.Refunds...)
	return &c
}

func (r *stubOrderRepo) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(nil)
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if o.IdempotencyKey != nil {
		if _, dup := r.idemIdx[*o.IdempotencyKey]; dup {
			return errors.New("duplicate idempotency key")
		}
		r.idemIdx[*o.IdempotencyKey] = o.ID
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) FindByIdempotencyKey(_ context.Context, key string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.idemIdx[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return cloneOrder(r.orders[id]), nil
}

func (r *stubOrderRepo) NextOrderNumber(_ context.Context, _ *gorm.DB, storeID uuid.UUID) (int, error) {
	r.counters[storeID]++
	return r.counters[storeID], nil
}

func (r *stubOrderRepo) UpdateStatusGuard(_ context.Context, _ *gorm.DB, id uuid.UUID, from, to model.OrderStatus) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (r *stubOrderRepo) Save(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) CreatePayment(_ context.Context, _ *gorm.DB, _ *model.Payment) error {
	return nil
}
func (r *stubOrderRepo) SavePayment(_ context.Context, _ *gorm.DB, _ *model.Payment) error {
	return nil
}
func (r *stubOrderRepo) CreateRefund(_ context.Context, _ *gorm.DB, _ *model.Refund) error {
	return nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if filter.Status != "" && filter.Status != "all" && string(o.Status) != filter.Status {
			continue
		}
		out = append(out, *cloneOrder(o))
	}
	return out, int64(len(out)), nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

type stubMenuRepo struct {
	items map[uuid.UUID]*model.MenuItem
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{items: make(map[uuid.UUID]*model.MenuItem)}
}

func (r *stubMenuRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return item, nil
}

var _ repository.MenuRepository = (*stubMenuRepo)(nil)

type stubStoreRepo struct {
	stores map[uuid.UUID]*model.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: make(map[uuid.UUID]*model.Store)}
}

func (r *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

var _ repository.StoreRepository = (*stubStoreRepo)(nil)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(id uuid.UUID, name string, role model.Role) {
	r.users[id] = &model.User{ID: id, Name: name, Role: role, Active: true}
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// recordingPublisher captures broadcasts for assertion.
type recordingPublisher struct {
	mu      sync.Mutex
	updates []dto.CartResponse
	cleared []dto.CartResponse
}

func (p *recordingPublisher) PublishCart(_ uuid.UUID, cart *dto.CartResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, *cart)
}

func (p *recordingPublisher) PublishCartCleared(_ uuid.UUID, cart *dto.CartResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared = append(p.cleared, *cart)
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedStore(repo *stubStoreRepo, vat, serviceCharge string) *model.Store {
	s := &model.Store{
		ID:                uuid.New(),
		Name:              "Food House Sukhumvit",
		Currency:          "THB",
		VatRate:           decimal.RequireFromString(vat),
		ServiceChargeRate: decimal.RequireFromString(serviceCharge),
	}
	repo.stores[s.ID] = s
	return s
}

func seedMenuItem(repo *stubMenuRepo, storeID uuid.UUID, name, price string) *model.MenuItem {
	item := &model.MenuItem{
		ID:        uuid.New(),
		StoreID:   storeID,
		Name:      name,
		BasePrice: decimal.RequireFromString(price),
	}
	repo.items[item.ID] = item
	return item
}

func addGroup(item *model.MenuItem, name string, min, max int, options ...*model.CustomizationOption) *model.CustomizationGroup {
	g := model.CustomizationGroup{
		ID:            uuid.New(),
		MenuItemID:    item.ID,
		Name:          name,
		MinSelectable: min,
		MaxSelectable: max,
	}
	for _, o := range options {
		o.GroupID = g.ID
		g.Options = append(g.Options, *o)
	}
	item.CustomizationGroups = append(item.CustomizationGroups, g)
	return &item.CustomizationGroups[len(item.CustomizationGroups)-1]
}

func option(name, price string) *model.CustomizationOption {
	return &model.CustomizationOption{
		ID:              uuid.New(),
		Name:            name,
		AdditionalPrice: decimal.RequireFromString(price),
	}
}
