package types

import (
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/samber/lo"
)

// AggregationMode selects how delivery runs turn into billable lines.
// EXPANSION: every run is materialized into one slot per day and the invoice
// shows one row per calendar day of the billing month.
// ITEMIZED: every run stays one line item priced as qty x price x days.
type AggregationMode string

const (
	AggregationModeExpansion AggregationMode = "expansion"
	AggregationModeItemized  AggregationMode = "itemized"
)

func (m AggregationMode) String() string {
	return string(m)
}

func (m AggregationMode) Validate() error {
	allowed := []AggregationMode{
		AggregationModeExpansion,
		AggregationModeItemized,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewErrorf("invalid aggregation mode %q", m).
			WithHint("Please provide a valid aggregation mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SummaryStrategy selects how the trailing customer summary page places its
// entries.
// SPLIT: the entries are halved by count into two fixed columns that grow
// downward independently.
// OVERFLOW: one running column that wraps to the next column, and to a new
// page after two columns, once it reaches the bottom margin.
type SummaryStrategy string

const (
	SummaryStrategySplit    SummaryStrategy = "split"
	SummaryStrategyOverflow SummaryStrategy = "overflow"
)

func (s SummaryStrategy) String() string {
	return string(s)
}

func (s SummaryStrategy) Validate() error {
	allowed := []SummaryStrategy{
		SummaryStrategySplit,
		SummaryStrategyOverflow,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid summary strategy %q", s).
			WithHint("Please provide a valid summary strategy").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ErrorPolicy decides what a malformed record does to its batch.
// ABORT: the first malformed record fails the whole batch, nothing is returned.
// SKIP: malformed records are reported back and the rest are billed.
type ErrorPolicy string

const (
	ErrorPolicyAbort ErrorPolicy = "abort"
	ErrorPolicySkip  ErrorPolicy = "skip"
)

func (p ErrorPolicy) String() string {
	return string(p)
}

func (p ErrorPolicy) Validate() error {
	allowed := []ErrorPolicy{
		ErrorPolicyAbort,
		ErrorPolicySkip,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewErrorf("invalid error policy %q", p).
			WithHint("Please provide a valid error policy").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
