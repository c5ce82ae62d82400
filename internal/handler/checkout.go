package handler

import (
	"net/http"

	"foodhouse/internal/dto"
	"foodhouse/internal/middleware"
	"foodhouse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Checkout godoc
// @Summary      Convert a cart into an order
// @Description  Atomically creates the order (prices re-snapshotted, VAT and service charge applied) and clears the cart. Replaying the same idempotency key returns the original order.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body body dto.CheckoutRequest true "Session and order type"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apperr.APIError
// @Failure      404  {object} apperr.APIError
// @Failure      422  {object} apperr.APIError
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// Staff tokens carry an actor; customer self-checkout has none.
	var actorID *uuid.UUID
	if raw, ok := c.Get(middleware.ClaimsKey); ok {
		if claims, ok := raw.(*middleware.JWTClaims); ok {
			id := claims.MustUserID()
			actorID = &id
		}
	}

	resp, err := h.svc.Checkout(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// QuickSale godoc
// @Summary      Create an order directly from an item list
// @Description  Staff counter sale that bypasses a cart session entirely.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.QuickSaleRequest true "Items and order type"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apperr.APIError
// @Failure      422  {object} apperr.APIError
// @Router       /v1/orders/quick-sale [post]
func (h *CheckoutHandler) QuickSale(c *gin.Context) {
	var req dto.QuickSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorFromClaims(c)
	resp, err := h.svc.QuickSale(c.Request.Context(), actor.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
