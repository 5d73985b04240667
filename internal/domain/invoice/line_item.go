package invoice

import (
	"github.com/shopspring/decimal"
)

// LineItem is one delivery run billed as a single row
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"amount"`
	Days        decimal.Decimal `json:"days"`
	Price       decimal.Decimal `json:"price"`
}

// DaysLabel is the description printed for a run, "31 Days"
func DaysLabel(days decimal.Decimal) string {
	return days.String() + " Days"
}
