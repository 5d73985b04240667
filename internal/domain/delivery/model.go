package delivery

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DeliveryRun is a contiguous span of DayCount days that each received
// Quantity liters
type DeliveryRun struct {
	Quantity decimal.Decimal `json:"quantity"`
	DayCount decimal.Decimal `json:"day_count"`
}

// Days is the number of day slots the run occupies. Fractional day counts
// are truncated toward zero.
func (r DeliveryRun) Days() int {
	return int(r.DayCount.IntPart())
}

// Liters is the exact volume of the run, Quantity x DayCount
func (r DeliveryRun) Liters() decimal.Decimal {
	return r.Quantity.Mul(r.DayCount)
}

// SlotLiters is the volume of the run once it is expanded into whole days
func (r DeliveryRun) SlotLiters() decimal.Decimal {
	return r.Quantity.Mul(decimal.NewFromInt(int64(r.Days())))
}

// CustomerRecord is one parsed input line. It is read-only after parsing.
type CustomerRecord struct {
	Name            string          `json:"name"`
	Runs            []DeliveryRun   `json:"runs"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	Raw             string          `json:"raw"`
}

// TotalSlots is the number of day slots covered by all runs. Bound
// TotalDayCount before calling it; the int sum is not overflow checked.
func (c *CustomerRecord) TotalSlots() int {
	return lo.SumBy(c.Runs, func(r DeliveryRun) int { return r.Days() })
}

// TotalDayCount is the exact sum of all day counts
func (c *CustomerRecord) TotalDayCount() decimal.Decimal {
	return lo.Reduce(c.Runs, func(acc decimal.Decimal, r DeliveryRun, _ int) decimal.Decimal {
		return acc.Add(r.DayCount)
	}, decimal.Zero)
}
