// Package money holds the fixed-precision currency helpers used by every
// component that touches a monetary value. All arithmetic goes through
// shopspring/decimal — native floating point is never used for currency, and
// no other package may round on its own.
package money

import "github.com/shopspring/decimal"

// DefaultPrecision is the number of fractional digits for currency rounding.
// Stores with zero-decimal currencies override it via Rounder.
const DefaultPrecision = 2

// Round rounds to the default currency precision (half away from zero, the
// convention cash registers expect).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DefaultPrecision)
}

// ApplyRate multiplies a base amount by a fractional rate (0.07 for 7% VAT)
// and rounds to currency precision.
func ApplyRate(base, rate decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(rate))
}

// Percentage returns pct% of base, rounded. pct is expressed as 0–100.
func Percentage(base, pct decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(pct).Div(decimal.NewFromInt(100)))
}

// RatioPct returns part/whole expressed as a percentage (0–100), unrounded so
// tier comparisons keep full precision. Returns zero when whole is zero.
func RatioPct(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole)
}

// Rounder rounds to a configurable precision for stores whose currency does
// not use two fractional digits.
type Rounder struct {
	precision int32
}

func NewRounder(precision int32) Rounder {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return Rounder{precision: precision}
}

func (r Rounder) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(r.precision)
}
