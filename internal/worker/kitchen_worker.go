package worker

import (
	"context"
	"encoding/json"

	"foodhouse/internal/model"
	"foodhouse/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// KitchenWorker delivers order-status events to the kitchen displays
// subscribed over WebSocket. It runs outside the originating transaction, so
// a slow or failed delivery never rolls back the status change.
type KitchenWorker struct {
	hub *ws.Hub
}

func NewKitchenWorker(hub *ws.Hub) *KitchenWorker {
	return &KitchenWorker{hub: hub}
}

func (w *KitchenWorker) Process(_ context.Context, raw json.RawMessage) error {
	var ev KitchenEventPayload
	if err := json.Unmarshal(raw, &ev); err != nil {
		return err
	}

	storeID, err := uuid.Parse(ev.StoreID)
	if err != nil {
		return err
	}
	orderID, err := uuid.Parse(ev.OrderID)
	if err != nil {
		return err
	}

	w.hub.PublishOrderStatus(storeID, orderID, ev.OrderNumber, model.OrderStatus(ev.Status))

	log.Info().
		Str("order_id", ev.OrderID).
		Int("order_number", ev.OrderNumber).
		Str("status", ev.Status).
		Bool("override", ev.Override).
		Msg("kitchen event delivered")
	return nil
}
