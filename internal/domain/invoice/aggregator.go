package invoice

import (
	"strings"

	"github.com/flexprice/milkbill/internal/domain/delivery"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/shopspring/decimal"
)

// DefaultMaxDaySlots bounds the summed day counts of one record when
// Params.MaxDaySlots is zero. A leap year fits.
const DefaultMaxDaySlots = 366

// Params are the batch-wide inputs shared by every invoice of a run
type Params struct {
	CompanyName   string
	BillingPeriod string
	PricePerLiter decimal.Decimal
	Rounding      types.RoundingMode
	MaxDaySlots   int
}

func (p Params) maxDaySlots() int {
	if p.MaxDaySlots <= 0 {
		return DefaultMaxDaySlots
	}
	return p.MaxDaySlots
}

// checkDaySlots rejects a record whose day counts add up past the cap.
// It runs on the exact decimal sum, before anything is sized from it.
func (p Params) checkDaySlots(rec *delivery.CustomerRecord) error {
	limit := p.maxDaySlots()
	total := rec.TotalDayCount()
	if total.LessThanOrEqual(decimal.NewFromInt(int64(limit))) {
		return nil
	}
	return ierr.NewErrorf("record covers %s days, at most %d allowed", total, limit).
		WithHintf("The day counts of %q add up to more than %d days", rec.Name, limit).
		WithReportableDetails(map[string]any{
			"record":    rec.Raw,
			"day_count": total.String(),
			"max":       limit,
		}).
		Mark(ierr.ErrMalformedRun)
}

func (p Params) Validate() error {
	if p.PricePerLiter.IsNegative() {
		return ierr.NewErrorf("price per liter %s is negative", p.PricePerLiter).
			WithHint("Price per liter must not be negative").
			Mark(ierr.ErrValidation)
	}
	if p.Rounding != "" {
		return p.Rounding.Validate()
	}
	return nil
}

// Aggregator turns a parsed customer record into an invoice record
type Aggregator interface {
	Mode() types.AggregationMode
	Aggregate(rec *delivery.CustomerRecord) (*InvoiceRecord, error)
}

// NewAggregator returns the aggregation strategy for mode. Expansion parses
// the billing period here, once per batch, so a bad label fails before any
// record is touched.
func NewAggregator(mode types.AggregationMode, params Params) (Aggregator, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	switch mode {
	case types.AggregationModeItemized:
		return &itemizedAggregator{params: params}, nil
	default:
		period, err := ParseBillingPeriod(params.BillingPeriod)
		if err != nil {
			return nil, err
		}
		return &expansionAggregator{params: params, period: period}, nil
	}
}

// Build is a one-shot helper for callers holding a single record
func Build(mode types.AggregationMode, params Params, rec *delivery.CustomerRecord) (*InvoiceRecord, error) {
	agg, err := NewAggregator(mode, params)
	if err != nil {
		return nil, err
	}
	return agg.Aggregate(rec)
}

type expansionAggregator struct {
	params Params
	period BillingPeriod
}

func (a *expansionAggregator) Mode() types.AggregationMode {
	return types.AggregationModeExpansion
}

func (a *expansionAggregator) Aggregate(rec *delivery.CustomerRecord) (*InvoiceRecord, error) {
	if rec == nil {
		return nil, ierr.NewError("nil customer record").Mark(ierr.ErrValidation)
	}
	if err := a.params.checkDaySlots(rec); err != nil {
		return nil, err
	}

	// day numbers run on across runs: (5-7)(4-22) fills days 1..7 then 8..29
	dayMap := make(map[int]decimal.Decimal, rec.TotalSlots())
	totalMilk := decimal.Zero
	day := 0
	for _, run := range rec.Runs {
		for i := 0; i < run.Days(); i++ {
			day++
			dayMap[day] = run.Quantity
			totalMilk = totalMilk.Add(run.Quantity)
		}
	}

	invoice := newInvoiceRecord(a.params, rec, types.AggregationModeExpansion, totalMilk, totalMilk.Mul(a.params.PricePerLiter))
	invoice.DailyQuantity = dayMap
	invoice.TotalDays = decimal.NewFromInt(int64(day))
	invoice.DaysInPeriod = a.period.DaysInMonth()
	return invoice, nil
}

type itemizedAggregator struct {
	params Params
}

func (a *itemizedAggregator) Mode() types.AggregationMode {
	return types.AggregationModeItemized
}

func (a *itemizedAggregator) Aggregate(rec *delivery.CustomerRecord) (*InvoiceRecord, error) {
	if rec == nil {
		return nil, ierr.NewError("nil customer record").Mark(ierr.ErrValidation)
	}
	if err := a.params.checkDaySlots(rec); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(rec.Runs))
	totalMilk := decimal.Zero
	totalPrice := decimal.Zero
	for _, run := range rec.Runs {
		price := run.Quantity.Mul(a.params.PricePerLiter).Mul(run.DayCount)
		items = append(items, LineItem{
			Description: DaysLabel(run.DayCount),
			Quantity:    run.Quantity,
			Days:        run.DayCount,
			Price:       types.RoundMoney(price, a.params.Rounding),
		})
		totalMilk = totalMilk.Add(run.Liters())
		totalPrice = totalPrice.Add(price)
	}

	invoice := newInvoiceRecord(a.params, rec, types.AggregationModeItemized, totalMilk, totalPrice)
	invoice.Items = items
	invoice.TotalDays = rec.TotalDayCount()
	invoice.DaysInPeriod = int(invoice.TotalDays.IntPart())
	return invoice, nil
}

// newInvoiceRecord fills the fields both strategies share. totalPrice is
// the unrounded product so the amount is rounded exactly once.
func newInvoiceRecord(
	params Params,
	rec *delivery.CustomerRecord,
	mode types.AggregationMode,
	totalMilk decimal.Decimal,
	totalPrice decimal.Decimal,
) *InvoiceRecord {
	return &InvoiceRecord{
		CompanyName:     params.CompanyName,
		ClientName:      rec.Name,
		BillingPeriod:   strings.TrimSpace(params.BillingPeriod),
		Mode:            mode,
		PricePerLiter:   params.PricePerLiter,
		TotalMilkLiters: totalMilk,
		TotalMilk:       FormatLiters(totalMilk),
		TotalPrice:      types.RoundMoney(totalPrice, params.Rounding),
		PreviousBalance: types.RoundMoney(rec.PreviousBalance, params.Rounding),
		TotalAmount:     types.RoundMoney(totalPrice.Add(rec.PreviousBalance), params.Rounding),
		RawRecord:       rec.Raw,
	}
}
