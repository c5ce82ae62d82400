package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	QueueKitchen = "jobs:kitchen"
	QueueReceipt = "jobs:receipt"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// KitchenEventPayload notifies the kitchen/notification collaborator of a
// status change. The core emits it; delivery and rendering happen downstream.
type KitchenEventPayload struct {
	OrderID     string    `json:"order_id"`
	OrderNumber int       `json:"order_number"`
	StoreID     string    `json:"store_id"`
	Status      string    `json:"status"`
	Override    bool      `json:"override,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ReceiptJobPayload asks the receipt worker to render (and optionally mail)
// the receipt for a fully paid order.
type ReceiptJobPayload struct {
	OrderID       string  `json:"order_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueKitchenEvent pushes an order-status event for the kitchen feed.
func (d *Dispatcher) EnqueueKitchenEvent(ctx context.Context, payload KitchenEventPayload) error {
	return d.enqueue(ctx, QueueKitchen, "kitchen_event", payload)
}

// EnqueueReceipt pushes a receipt-generation job.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
