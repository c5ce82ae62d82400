package handler

import (
	"net/http"

	"foodhouse/internal/dto"
	"foodhouse/internal/service"

	"github.com/gin-gonic/gin"
)

type DiscountsHandler struct{ svc service.DiscountService }

func NewDiscountsHandler(svc service.DiscountService) *DiscountsHandler {
	return &DiscountsHandler{svc: svc}
}

// ApplyDiscount godoc
// @Summary      Apply a discount to an order
// @Description  Tiered authorization by effective percentage of the subtotal: below 10%% any staff, 10–50%% inclusive ADMIN, above 50%% OWNER. Replaces any prior discount atomically.
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Order UUID"
// @Param        body body dto.ApplyDiscountRequest true "Discount type, value and reason"
// @Success      200 {object} dto.OrderResponse
// @Failure      403 {object} apperr.APIError
// @Failure      404 {object} apperr.APIError
// @Failure      422 {object} apperr.APIError
// @Router       /v1/orders/{id}/discount [put]
func (h *DiscountsHandler) ApplyDiscount(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ApplyDiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyDiscount(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveDiscount godoc
// @Summary      Remove the order's discount
// @Description  Always requires ADMIN or above, regardless of the original discount's tier.
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      403 {object} apperr.APIError
// @Failure      404 {object} apperr.APIError
// @Router       /v1/orders/{id}/discount [delete]
func (h *DiscountsHandler) RemoveDiscount(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveDiscount(c.Request.Context(), actorFromClaims(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
