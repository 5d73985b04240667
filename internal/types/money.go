package types

import (
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimal places kept on monetary values in
// the invoice data model
const MoneyPrecision int32 = 2

// RoundingMode is the rule used when a monetary value is cut to two places.
// HALF_UP rounds ties away from zero (2.345 -> 2.35, -2.345 -> -2.35).
// HALF_EVEN rounds ties to the even neighbour (2.345 -> 2.34, 2.355 -> 2.36).
type RoundingMode string

const (
	RoundingModeHalfUp   RoundingMode = "half_up"
	RoundingModeHalfEven RoundingMode = "half_even"
)

func (r RoundingMode) String() string {
	return string(r)
}

func (r RoundingMode) Validate() error {
	allowed := []RoundingMode{
		RoundingModeHalfUp,
		RoundingModeHalfEven,
	}
	if !lo.Contains(allowed, r) {
		return ierr.NewErrorf("invalid rounding mode %q", r).
			WithHint("Please provide a valid rounding mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RoundMoney rounds d to MoneyPrecision places. An empty mode means HALF_UP.
func RoundMoney(d decimal.Decimal, mode RoundingMode) decimal.Decimal {
	if mode == RoundingModeHalfEven {
		return d.RoundBank(MoneyPrecision)
	}
	return d.Round(MoneyPrecision)
}

// TruncateMoney drops the fractional part of d toward zero. Printed invoices
// show whole rupees only.
func TruncateMoney(d decimal.Decimal) int64 {
	return d.Truncate(0).IntPart()
}
