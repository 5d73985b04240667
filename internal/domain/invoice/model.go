package invoice

import (
	"sort"

	"github.com/flexprice/milkbill/internal/layout"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceRecord is the billed view of one customer for one period. It is
// built once by an Aggregator and never mutated afterwards.
type InvoiceRecord struct {
	CompanyName   string                `json:"company_name"`
	ClientName    string                `json:"client_name"`
	BillingPeriod string                `json:"date"`
	Mode          types.AggregationMode `json:"mode"`

	// DailyQuantity maps day number (1-based) to liters, expansion mode only.
	// Days past the last delivery are absent and read as zero.
	DailyQuantity map[int]decimal.Decimal `json:"day_milk_map,omitempty"`

	// Items holds one entry per delivery run, itemized mode only
	Items []LineItem `json:"items,omitempty"`

	PricePerLiter   decimal.Decimal `json:"milk_price_per_liter"`
	TotalMilkLiters decimal.Decimal `json:"total_milk_liters"`
	TotalMilk       string          `json:"total_milk"`
	TotalDays       decimal.Decimal `json:"total_days"`
	DaysInPeriod    int             `json:"num_days"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RawRecord       string          `json:"raw_record"`
}

// QuantityOn returns the liters delivered on day, zero when nothing was
func (r *InvoiceRecord) QuantityOn(day int) decimal.Decimal {
	if q, ok := r.DailyQuantity[day]; ok {
		return q
	}
	return decimal.Zero
}

// DayQuantity is the delivery of one calendar day
type DayQuantity struct {
	Day      int             `json:"day"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CalendarRows returns one row per day 1..DaysInPeriod, zero where nothing
// was delivered. Deliveries past the end of the period are not included.
func (r *InvoiceRecord) CalendarRows() []DayQuantity {
	rows := make([]DayQuantity, 0, r.DaysInPeriod)
	for day := 1; day <= r.DaysInPeriod; day++ {
		rows = append(rows, DayQuantity{Day: day, Quantity: r.QuantityOn(day)})
	}
	return rows
}

// SummaryEntry is the line this invoice contributes to the summary page
func (r *InvoiceRecord) SummaryEntry() layout.SummaryEntry {
	return layout.SummaryEntry{
		ClientName:  r.ClientName,
		TotalAmount: r.TotalAmount,
		Raw:         r.RawRecord,
	}
}

// Days returns the populated day numbers in ascending order
func (r *InvoiceRecord) Days() []int {
	days := make([]int, 0, len(r.DailyQuantity))
	for day := range r.DailyQuantity {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// DailyTotal sums the day map. For expansion invoices it equals
// TotalMilkLiters.
func (r *InvoiceRecord) DailyTotal() decimal.Decimal {
	total := decimal.Zero
	for _, q := range r.DailyQuantity {
		total = total.Add(q)
	}
	return total
}

// FormatLiters renders a volume the way invoices print it, "124.00(L)"
func FormatLiters(d decimal.Decimal) string {
	return d.StringFixed(2) + "(L)"
}
