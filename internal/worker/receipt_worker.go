package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"foodhouse/internal/infra"
	"foodhouse/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders the PDF receipt for a fully paid order and mails it
// when a customer email was captured at checkout.
type ReceiptWorker struct {
	orders      repository.OrderRepository
	stores      repository.StoreRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewReceiptWorker(orders repository.OrderRepository, stores repository.StoreRepository, mailer *infra.Mailer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{orders: orders, stores: stores, mailer: mailer, storagePath: storagePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return err
	}
	order, err := w.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("receipt: load order %s: %w", payload.OrderID, err)
	}

	storeName := "Food House"
	if store, err := w.stores.FindByID(ctx, order.StoreID); err == nil {
		storeName = store.Name
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, storeName, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Int("order_number", order.OrderNumber).Str("path", pdfPath).Msg("receipt generated")

	email := payload.CustomerEmail
	if email == nil {
		email = order.CustomerEmail
	}
	if email == nil || *email == "" || w.mailer == nil {
		return nil
	}

	subject := fmt.Sprintf("Your receipt for order #%d", order.OrderNumber)
	body := fmt.Sprintf("Thank you for your visit. Your receipt for order #%d is attached.", order.OrderNumber)
	if err := w.mailer.SendReceipt(*email, subject, body, pdfPath); err != nil {
		return fmt.Errorf("receipt: mail order %s: %w", payload.OrderID, err)
	}
	return nil
}
