package handler

import (
	"net/http"

	"foodhouse/internal/dto"
	"foodhouse/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// RecordPayment godoc
// @Summary      Record a payment against an order
// @Description  Supports full, partial and split payment. The amount may never exceed the remaining balance; cash change is computed from amount_tendered and returned, never stored.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Order UUID"
// @Param        body body dto.RecordPaymentRequest true "Amount and method"
// @Success      201 {object} dto.OrderResponse
// @Failure      400 {object} apperr.APIError
// @Failure      422 {object} apperr.APIError
// @Router       /v1/orders/{id}/payments [post]
func (h *PaymentsHandler) RecordPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateRefund godoc
// @Summary      Refund money from an order
// @Description  Bounded by the order's current total paid; an over-refund is rejected with no state change.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Order UUID"
// @Param        body body dto.CreateRefundRequest true "Amount and reason"
// @Success      201 {object} dto.OrderResponse
// @Failure      400 {object} apperr.APIError
// @Failure      422 {object} apperr.APIError
// @Router       /v1/orders/{id}/refunds [post]
func (h *PaymentsHandler) CreateRefund(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateRefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRefund(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VoidPayment godoc
// @Summary      Void a payment record
// @Description  Marks the payment voided and recomputes the running balance; the record itself is never deleted.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "Order UUID"
// @Param        paymentId path string true "Payment UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apperr.APIError
// @Failure      409 {object} apperr.APIError
// @Router       /v1/orders/{id}/payments/{paymentId}/void [post]
func (h *PaymentsHandler) VoidPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := pathUUID(c, "paymentId")
	if !ok {
		return
	}
	resp, err := h.svc.VoidPayment(c.Request.Context(), actorFromClaims(c), id, paymentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
