// Package ws implements the fan-out side of the cart sync protocol and the
// kitchen display feed. Delivery is at-least-once and fire-and-forget:
// subscribers treat every payload as an idempotent replacement keyed by its
// version, so duplicates and reordering are harmless. A broadcast failure
// never fails the mutation that triggered it.
package ws

import (
	"errors"
	"sync"

	"foodhouse/internal/dto"
	"foodhouse/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types pushed over the wire.
const (
	EventCartUpdate  = "cart_update"
	EventCartCleared = "cart_cleared"
	EventOrderStatus = "order_status"
)

// Message is the envelope for every hub payload.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderStatusEvent is the kitchen-display payload. The core emits the new
// status; rendering is the collaborator's concern.
type OrderStatusEvent struct {
	OrderID     string `json:"order_id"`
	OrderNumber int    `json:"order_number"`
	StoreID     string `json:"store_id"`
	Status      string `json:"status"`
}

// client wraps a connection with its write mutex. gorilla/websocket permits
// at most one concurrent writer per connection, so every outbound frame goes
// through writeJSON.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks two subscription topologies: per cart session (all devices at
// one table) and per store (kitchen displays). A connection keeps one client
// entry no matter how many topics it follows, so its writes stay serialized
// across overlapping broadcasts.
type Hub struct {
	mu          sync.Mutex
	clients     map[*websocket.Conn]*client
	sessionSubs map[uuid.UUID]map[*client]bool
	storeSubs   map[uuid.UUID]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*websocket.Conn]*client),
		sessionSubs: make(map[uuid.UUID]map[*client]bool),
		storeSubs:   make(map[uuid.UUID]map[*client]bool),
	}
}

func (h *Hub) clientFor(conn *websocket.Conn) *client {
	cl, ok := h.clients[conn]
	if !ok {
		cl = &client{conn: conn}
		h.clients[conn] = cl
	}
	return cl
}

// SubscribeSession registers a device connection for a cart session.
func (h *Hub) SubscribeSession(sessionID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl := h.clientFor(conn)
	if h.sessionSubs[sessionID] == nil {
		h.sessionSubs[sessionID] = make(map[*client]bool)
	}
	h.sessionSubs[sessionID][cl] = true
}

// SubscribeStore registers a kitchen-display connection for a store.
func (h *Hub) SubscribeStore(storeID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl := h.clientFor(conn)
	if h.storeSubs[storeID] == nil {
		h.storeSubs[storeID] = make(map[*client]bool)
	}
	h.storeSubs[storeID][cl] = true
}

// Unsubscribe drops the connection from every topic and closes it.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	for id, subs := range h.sessionSubs {
		delete(subs, cl)
		if len(subs) == 0 {
			delete(h.sessionSubs, id)
		}
	}
	for id, subs := range h.storeSubs {
		delete(subs, cl)
		if len(subs) == 0 {
			delete(h.storeSubs, id)
		}
	}
	conn.Close()
}

// SendTo pushes a payload to one subscribed connection through its write
// lock, so an initial snapshot cannot collide with a concurrent broadcast.
func (h *Hub) SendTo(conn *websocket.Conn, msg Message) error {
	h.mu.Lock()
	cl, ok := h.clients[conn]
	h.mu.Unlock()
	if !ok {
		return errors.New("ws: connection is not subscribed")
	}
	return cl.writeJSON(msg)
}

// SessionSubscriberCount reports how many devices follow a session.
func (h *Hub) SessionSubscriberCount(sessionID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessionSubs[sessionID])
}

// PublishCart broadcasts the authoritative cart state to every device
// subscribed to the session.
func (h *Hub) PublishCart(sessionID uuid.UUID, cart *dto.CartResponse) {
	h.broadcastSession(sessionID, Message{Event: EventCartUpdate, Data: cart})
}

// PublishCartCleared tells session devices the cart was destroyed (checkout
// or explicit clear).
func (h *Hub) PublishCartCleared(sessionID uuid.UUID, cart *dto.CartResponse) {
	h.broadcastSession(sessionID, Message{Event: EventCartCleared, Data: cart})
}

// PublishOrderStatus pushes a status change to the store's kitchen displays.
func (h *Hub) PublishOrderStatus(storeID, orderID uuid.UUID, orderNumber int, status model.OrderStatus) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.storeSubs[storeID]))
	for c := range h.storeSubs[storeID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	msg := Message{Event: EventOrderStatus, Data: OrderStatusEvent{
		OrderID:     orderID.String(),
		OrderNumber: orderNumber,
		StoreID:     storeID.String(),
		Status:      string(status),
	}}
	h.send(targets, msg)
}

func (h *Hub) broadcastSession(sessionID uuid.UUID, msg Message) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.sessionSubs[sessionID]))
	for c := range h.sessionSubs[sessionID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	h.send(targets, msg)
}

// send writes outside the subscriber lock; each client's write mutex keeps
// concurrent broadcasts off the same socket. A dead connection is dropped so
// one stuck device cannot stall the rest of the table.
func (h *Hub) send(targets []*client, msg Message) {
	for _, cl := range targets {
		if err := cl.writeJSON(msg); err != nil {
			log.Warn().Err(err).Str("event", msg.Event).Msg("dropping dead ws subscriber")
			h.Unsubscribe(cl.conn)
		}
	}
}
