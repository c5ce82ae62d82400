package handler

import (
	"net/http"

	"foodhouse/internal/apperr"
	"foodhouse/internal/service"
	"foodhouse/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin is enforced by the reverse proxy in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub  *ws.Hub
	cart service.CartService
}

func NewWSHandler(hub *ws.Hub, cart service.CartService) *WSHandler {
	return &WSHandler{hub: hub, cart: cart}
}

// SessionSocket subscribes a device to a cart session. The current
// authoritative cart is pushed immediately so a reconnecting device does not
// wait for the next mutation to catch up.
func (h *WSHandler) SessionSocket(c *gin.Context) {
	sessionID, ok := pathUUID(c, "sessionId")
	if !ok {
		return
	}

	cart, err := h.cart.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, apperr.New("session not found"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	h.hub.SubscribeSession(sessionID, conn)
	// The snapshot goes through the hub so it cannot collide with a
	// broadcast already fanning out to this session.
	if err := h.hub.SendTo(conn, ws.Message{Event: ws.EventCartUpdate, Data: cart}); err != nil {
		h.hub.Unsubscribe(conn)
		return
	}

	go h.readLoop(conn)
}

// KitchenSocket subscribes a kitchen display to a store's order-status feed.
func (h *WSHandler) KitchenSocket(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	h.hub.SubscribeStore(storeID, conn)
	go h.readLoop(conn)
}

// readLoop drains inbound frames until the peer goes away. Clients never send
// meaningful data on these sockets; the loop exists to detect disconnects and
// answer pings.
func (h *WSHandler) readLoop(conn *websocket.Conn) {
	defer h.hub.Unsubscribe(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
