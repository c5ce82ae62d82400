package handler

import (
	"net/http"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// GetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apperr.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrders godoc
// @Summary      List orders
// @Description  Paginated, filtered by store, status and date.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        store_id query string false "Store UUID"
// @Param        status   query string false "PENDING | PREPARING | READY | COMPLETED | CANCELLED | all"
// @Param        date     query string false "YYYY-MM-DD"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Failure      400 {object} apperr.APIError
// @Router       /v1/orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apperr.New(err.Error()))
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Move an order through the kitchen state machine
// @Description  Single-step transitions only; forward skips need override=true from ADMIN or above and are logged. Cancelling an order with money still held is rejected until refunds zero it.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Order UUID"
// @Param        body body dto.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apperr.APIError
// @Failure      409 {object} apperr.APIError
// @Failure      422 {object} apperr.APIError
// @Router       /v1/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
