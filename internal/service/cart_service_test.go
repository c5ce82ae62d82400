package service_test

import (
	"context"
	"testing"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCartSvc() (service.CartService, *stubCartRepo, *stubMenuRepo, *stubStoreRepo, *recordingPublisher) {
	cartRepo := newStubCartRepo()
	menuRepo := newStubMenuRepo()
	storeRepo := newStubStoreRepo()
	pub := &recordingPublisher{}
	svc := service.NewCartService(cartRepo, menuRepo, storeRepo, pub)
	return svc, cartRepo, menuRepo, storeRepo, pub
}

func mustSession(t *testing.T, svc service.CartService, storeID uuid.UUID) uuid.UUID {
	t.Helper()
	resp, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{StoreID: storeID.String()})
	require.NoError(t, err)
	return uuid.MustParse(resp.SessionID)
}

func TestCartAddItem_PricesLineAndBumpsVersion(t *testing.T) {
	svc, _, menuRepo, storeRepo, pub := buildCartSvc()
	store := seedStore(storeRepo, "0.07", "0.10")
	item := seedMenuItem(menuRepo, store.ID, "Pad Thai", "10.00")
	size := addGroup(item, "Size", 1, 1, option("Regular", "0.00"), option("Large", "2.50"))

	sessionID := mustSession(t, svc, store.ID)

	resp, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{
		MenuItemID: item.ID.String(),
		Quantity:   2,
		Options:    []dto.OptionSelection{{OptionID: size.Options[1].ID.String()}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Version)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "12.50", resp.Items[0].FinalPrice.StringFixed(2))
	assert.Equal(t, "25.00", resp.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "25.00", resp.SubTotal.StringFixed(2))

	require.Len(t, pub.updates, 1)
	assert.Equal(t, int64(1), pub.updates[0].Version)
}

func TestCartAddItem_HiddenItemLeavesCartUntouched(t *testing.T) {
	svc, _, menuRepo, storeRepo, _ := buildCartSvc()
	store := seedStore(storeRepo, "0.07", "0.10")
	item := seedMenuItem(menuRepo, store.ID, "Secret Curry", "8.00")
	item.IsHidden = true

	sessionID := mustSession(t, svc, store.ID)

	_, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{
		MenuItemID: item.ID.String(),
		Quantity:   1,
	})
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	cart, err := svc.GetCart(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.Version)
}

func TestCartAddItem_GroupMinimumEnforced(t *testing.T) {
	svc, _, menuRepo, storeRepo, _ := buildCartSvc()
	store := seedStore(storeRepo, "0", "0")
	item := seedMenuItem(menuRepo, store.ID, "Noodle Soup", "6.50")
	addGroup(item, "Noodle type", 1, 1, option("Rice", "0.00"), option("Egg", "0.00"))

	sessionID := mustSession(t, svc, store.ID)

	_, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{
		MenuItemID: item.ID.String(),
		Quantity:   1,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCartAddItem_GroupMaximumEnforced(t *testing.T) {
	svc, _, menuRepo, storeRepo, _ := buildCartSvc()
	store := seedStore(storeRepo, "0", "0")
	item := seedMenuItem(menuRepo, store.ID, "Pizza", "9.00")
	toppings := addGroup(item, "Toppings", 0, 1, option("Cheese", "1.00"), option("Ham", "1.50"))

	sessionID := mustSession(t, svc, store.ID)

	_, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{
		MenuItemID: item.ID.String(),
		Quantity:   1,
		Options: []dto.OptionSelection{
			{OptionID: toppings.Options[0].ID.String()},
			{OptionID: toppings.Options[1].ID.String()},
		},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCartVersionMismatchRejected(t *testing.T) {
	svc, _, menuRepo, storeRepo, _ := buildCartSvc()
	store := seedStore(storeRepo, "0", "0")
	item := seedMenuItem(menuRepo, store.ID, "Spring Rolls", "4.00")

	sessionID := mustSession(t, svc, store.ID)
	stale := int64(5)

	_, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{
		MenuItemID:      item.ID.String(),
		Quantity:        1,
		ExpectedVersion: &stale,
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCartUpdateItem_QuantityZeroRemovesLine(t *testing.T) {
	svc, _, menuRepo, storeRepo, _ := buildCartSvc()
	store := seedStore(storeRepo, "0", "0")
	item := seedMenuItem(menuRepo, store.ID, "Iced Tea", "2.00")

	sessionID := mustSession(t, svc, store.ID)
	added, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{
		MenuItemID: item.ID.String(),
		Quantity:   3,
	})
	require.NoError(t, err)

	resp, err := svc.UpdateItem(context.Background(), sessionID, uuid.MustParse(added.Items[0].ID), dto.UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(2), resp.Version)
}

func TestCartClear_KeepsSessionAlive(t *testing.T) {
	svc, _, menuRepo, storeRepo, pub := buildCartSvc()
	store := seedStore(storeRepo, "0", "0")
	item := seedMenuItem(menuRepo, store.ID, "Mango Sticky Rice", "5.00")

	sessionID := mustSession(t, svc, store.ID)
	_, err := svc.AddItem(context.Background(), sessionID, dto.AddItemRequest{MenuItemID: item.ID.String(), Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.ClearCart(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(2), resp.Version)
	require.Len(t, pub.cleared, 1)

	cart, err := svc.GetCart(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

// Every accepted mutation bumps the version by exactly 1 and broadcasts the
// new state, so a device holding version N can discard any broadcast ≤ N.
func TestCartBroadcastVersionsAreMonotonic(t *testing.T) {
	svc, _, menuRepo, storeRepo, pub := buildCartSvc()
	store := seedStore(storeRepo, "0", "0")
	item := seedMenuItem(menuRepo, store.ID, "Satay", "3.00")

	sessionID := mustSession(t, svc, store.ID)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, sessionID, dto.AddItemRequest{MenuItemID: item.ID.String(), Quantity: 1})
	require.NoError(t, err)
	itemID := uuid.MustParse(added.Items[0].ID)

	_, err = svc.UpdateItem(ctx, sessionID, itemID, dto.UpdateItemRequest{Quantity: 4})
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, sessionID, itemID, nil)
	require.NoError(t, err)

	require.Len(t, pub.updates, 3)
	for i, u := range pub.updates {
		assert.Equal(t, int64(i+1), u.Version)
	}
}

func TestCartSessionNotFoundIsTerminal(t *testing.T) {
	svc, _, _, _, _ := buildCartSvc()
	_, err := svc.GetCart(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
