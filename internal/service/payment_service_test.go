package service_test

import (
	"context"
	"sync"
	"testing"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pay(amount string) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{Amount: decimal.RequireFromString(amount), Method: "CASH"}
}

func TestSplitPaymentReachesPaidInFull(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	// grandTotal 23.40
	order := seedOrder(repo, "20.00", "0.07", "0.10")
	ctx := context.Background()
	actor := cashier()

	resp, err := svc.RecordPayment(ctx, actor, order.ID, pay("10.00"))
	require.NoError(t, err)
	assert.Equal(t, "10.00", resp.TotalPaid.StringFixed(2))
	assert.Equal(t, "13.40", resp.RemainingBalance.StringFixed(2))
	assert.False(t, resp.IsPaidInFull)

	resp, err = svc.RecordPayment(ctx, actor, order.ID, dto.RecordPaymentRequest{
		Amount: decimal.RequireFromString("13.40"),
		Method: "CREDIT_CARD",
	})
	require.NoError(t, err)
	assert.Equal(t, "23.40", resp.TotalPaid.StringFixed(2))
	assert.Equal(t, "0.00", resp.RemainingBalance.StringFixed(2))
	assert.True(t, resp.IsPaidInFull)
	assert.Len(t, resp.Payments, 2)
}

func TestPaymentExceedingBalanceRejected(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0.07", "0.10")

	_, err := svc.RecordPayment(context.Background(), cashier(), order.ID, pay("30.00"))
	assert.True(t, apperr.Is(err, apperr.KindAmountExceedsBalance))

	stored, ferr := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, ferr)
	assert.Equal(t, "0.00", stored.TotalPaid.StringFixed(2))
	assert.Empty(t, stored.Payments)
}

func TestPaymentNonPositiveAmountRejected(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0", "0")

	_, err := svc.RecordPayment(context.Background(), cashier(), order.ID, pay("0"))
	assert.True(t, apperr.Is(err, apperr.KindInvalidAmount))

	_, err = svc.RecordPayment(context.Background(), cashier(), order.ID, pay("-5.00"))
	assert.True(t, apperr.Is(err, apperr.KindInvalidAmount))
}

// Cash change comes from amount_tendered and is returned, never stored:
// totalPaid still equals the recorded amount exactly.
func TestCashChangeComputedNotPersisted(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0.07", "0.10")

	tendered := decimal.RequireFromString("30.00")
	resp, err := svc.RecordPayment(context.Background(), cashier(), order.ID, dto.RecordPaymentRequest{
		Amount:         decimal.RequireFromString("23.40"),
		Method:         "CASH",
		AmountTendered: &tendered,
	})
	require.NoError(t, err)

	require.Len(t, resp.Payments, 1)
	require.NotNil(t, resp.Payments[0].Change)
	assert.Equal(t, "6.60", resp.Payments[0].Change.StringFixed(2))
	assert.Equal(t, "23.40", resp.TotalPaid.StringFixed(2))

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "23.40", stored.TotalPaid.StringFixed(2))
}

func TestTenderingLessThanAmountRejected(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0", "0")

	tendered := decimal.RequireFromString("10.00")
	_, err := svc.RecordPayment(context.Background(), cashier(), order.ID, dto.RecordPaymentRequest{
		Amount:         decimal.RequireFromString("20.00"),
		Method:         "CASH",
		AmountTendered: &tendered,
	})
	assert.True(t, apperr.Is(err, apperr.KindInvalidAmount))
}

func TestOverRefundRejectedWithNoStateChange(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0.07", "0.10")
	ctx := context.Background()
	actor := admin()

	_, err := svc.RecordPayment(ctx, actor, order.ID, pay("23.40"))
	require.NoError(t, err)

	_, err = svc.CreateRefund(ctx, actor, order.ID, dto.CreateRefundRequest{
		Amount: decimal.RequireFromString("30.00"),
	})
	assert.True(t, apperr.Is(err, apperr.KindAmountExceedsBalance))

	stored, ferr := repo.FindByID(ctx, order.ID)
	require.NoError(t, ferr)
	assert.Equal(t, "23.40", stored.TotalPaid.StringFixed(2))
	assert.Empty(t, stored.Refunds)
}

func TestRefundReducesTotalPaid(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0.07", "0.10")
	ctx := context.Background()
	actor := admin()

	_, err := svc.RecordPayment(ctx, actor, order.ID, pay("23.40"))
	require.NoError(t, err)

	reason := "cold food"
	resp, err := svc.CreateRefund(ctx, actor, order.ID, dto.CreateRefundRequest{
		Amount: decimal.RequireFromString("23.40"),
		Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.TotalPaid.StringFixed(2))
	assert.Equal(t, "23.40", resp.RemainingBalance.StringFixed(2))
	assert.False(t, resp.IsPaidInFull)
}

func TestVoidPaymentRecomputesBalance(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "100.00", "0", "0")
	ctx := context.Background()
	actor := admin()

	first, err := svc.RecordPayment(ctx, actor, order.ID, pay("60.00"))
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, actor, order.ID, pay("40.00"))
	require.NoError(t, err)

	paymentID := uuid.MustParse(first.Payments[0].ID)
	resp, err := svc.VoidPayment(ctx, actor, order.ID, paymentID)
	require.NoError(t, err)

	assert.Equal(t, "40.00", resp.TotalPaid.StringFixed(2))
	assert.Equal(t, "60.00", resp.RemainingBalance.StringFixed(2))
	require.Len(t, resp.Payments, 2)
	assert.True(t, resp.Payments[0].Voided)

	// Voiding twice is a conflict, not a double reversal.
	_, err = svc.VoidPayment(ctx, actor, order.ID, paymentID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

// Two concurrent payments that each individually fit the balance but jointly
// exceed it: exactly one must win. The balance check and the write happen
// under the same order lock.
func TestConcurrentPaymentsOnlyOneSucceeds(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "100.00", "0", "0")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordPayment(ctx, cashier(), order.ID, pay("60.00"))
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, apperr.Is(err, apperr.KindAmountExceedsBalance))
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", stored.TotalPaid.StringFixed(2))
}

func TestPaymentOnCancelledOrderRejected(t *testing.T) {
	repo := newStubOrderRepo()
	svc := service.NewPaymentService(repo, nil)
	order := seedOrder(repo, "20.00", "0", "0")
	order.Status = "CANCELLED"

	_, err := svc.RecordPayment(context.Background(), cashier(), order.ID, pay("5.00"))
	assert.True(t, apperr.Is(err, apperr.KindStateTransition))
}
