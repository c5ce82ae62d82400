package money_test

import (
	"testing"

	"foodhouse/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "2.35", money.Round(d("2.345")).StringFixed(2))
	assert.Equal(t, "2.34", money.Round(d("2.344")).StringFixed(2))
	assert.Equal(t, "-2.35", money.Round(d("-2.345")).StringFixed(2))
}

func TestApplyRate(t *testing.T) {
	// 7% VAT on 20.00
	assert.Equal(t, "1.40", money.ApplyRate(d("20.00"), d("0.07")).StringFixed(2))
	// 10% service charge on 20.00
	assert.Equal(t, "2.00", money.ApplyRate(d("20.00"), d("0.10")).StringFixed(2))
	assert.Equal(t, "0.00", money.ApplyRate(d("20.00"), d("0")).StringFixed(2))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "10.00", money.Percentage(d("100.00"), d("10")).StringFixed(2))
	assert.Equal(t, "0.33", money.Percentage(d("3.33"), d("10")).StringFixed(2))
}

func TestRatioPct(t *testing.T) {
	assert.Equal(t, "25", money.RatioPct(d("25.00"), d("100.00")).String())
	// Unrounded so tier comparisons at 50.01 stay exact.
	assert.Equal(t, "50.01", money.RatioPct(d("50.01"), d("100.00")).String())
	assert.True(t, money.RatioPct(d("5.00"), decimal.Zero).IsZero())
}

func TestRounderCustomPrecision(t *testing.T) {
	r := money.NewRounder(0)
	assert.Equal(t, "24", r.Round(d("23.50")).String())
}
