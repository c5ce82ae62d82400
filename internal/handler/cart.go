package handler

import (
	"net/http"
	"strconv"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

// CreateSession godoc
// @Summary      Start a cart session
// @Description  Creates an empty session-scoped cart for a store. The session id is the subscription key for real-time sync.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateSessionRequest true "Store to shop in"
// @Success      201  {object} dto.CartResponse
// @Failure      400  {object} apperr.APIError
// @Router       /v1/cart/sessions [post]
func (h *CartHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSession(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCart godoc
// @Summary      Get the authoritative cart state
// @Tags         cart
// @Produce      json
// @Param        sessionId path string true "Session UUID"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apperr.APIError
// @Router       /v1/cart/sessions/{sessionId} [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, ok := pathUUID(c, "sessionId")
	if !ok {
		return
	}
	resp, err := h.svc.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary      Add an item to the cart
// @Description  Validates the menu item and its customization selections, prices the line, bumps the cart version and broadcasts the new state to every session subscriber.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        sessionId path string             true "Session UUID"
// @Param        body      body dto.AddItemRequest true "Line to add"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apperr.APIError
// @Failure      409 {object} apperr.APIError
// @Failure      422 {object} apperr.APIError
// @Router       /v1/cart/sessions/{sessionId}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, ok := pathUUID(c, "sessionId")
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), sessionID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary      Update a cart line
// @Description  Changes quantity and notes. Quantity 0 removes the line.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        sessionId path string                true "Session UUID"
// @Param        itemId    path string                true "Cart item UUID"
// @Param        body      body dto.UpdateItemRequest true "New quantity and notes"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apperr.APIError
// @Router       /v1/cart/sessions/{sessionId}/items/{itemId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID, ok := pathUUID(c, "sessionId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), sessionID, itemID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        sessionId        path  string true  "Session UUID"
// @Param        itemId           path  string true  "Cart item UUID"
// @Param        expected_version query int    false "Optimistic concurrency guard"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apperr.APIError
// @Router       /v1/cart/sessions/{sessionId}/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, ok := pathUUID(c, "sessionId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	var expected *int64
	if raw := c.Query("expected_version"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apperr.New("invalid expected_version"))
			return
		}
		expected = &v
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), sessionID, itemID, expected)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearCart godoc
// @Summary      Empty the cart
// @Description  Deletes every line and broadcasts the cleared state. The session itself stays alive.
// @Tags         cart
// @Produce      json
// @Param        sessionId path string true "Session UUID"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apperr.APIError
// @Router       /v1/cart/sessions/{sessionId}/items [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID, ok := pathUUID(c, "sessionId")
	if !ok {
		return
	}
	resp, err := h.svc.ClearCart(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
