package delivery

import (
	"strings"

	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/shopspring/decimal"
)

const (
	fieldSeparator = ":"
	runSeparator   = ")("
	runParens      = "()"
	runQtyDays     = "-"
	recordFields   = 3
)

// ParseRecord parses one "<name>:<runs>:<previousBalance>" line, where runs
// is a concatenation of "(<quantity>-<dayCount>)" groups, for example
// "Gaffer:(5-7)(4-22)(0-1)(2-1):000".
func ParseRecord(line string) (*CustomerRecord, error) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) != recordFields {
		return nil, ierr.NewErrorf("record has %d fields, expected %d", len(parts), recordFields).
			WithHint("A record must look like <name>:(<liters>-<days>)...:<previous balance>").
			WithReportableDetails(map[string]any{
				"record": line,
				"fields": len(parts),
			}).
			Mark(ierr.ErrMalformedRecord)
	}

	name, runsText, balanceText := parts[0], parts[1], parts[2]

	runs, err := ParseRuns(runsText)
	if err != nil {
		return nil, err
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(balanceText))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Previous balance %q for %q is not a number", balanceText, name).
			WithReportableDetails(map[string]any{
				"record":  line,
				"balance": balanceText,
			}).
			Mark(ierr.ErrInvalidBalance)
	}

	return &CustomerRecord{
		Name:            name,
		Runs:            runs,
		PreviousBalance: balance,
		Raw:             line,
	}, nil
}

// ParseRuns parses the "(q-d)(q-d)..." part of a record in order
func ParseRuns(runsText string) ([]DeliveryRun, error) {
	tokens := strings.Split(strings.Trim(runsText, runParens), runSeparator)

	runs := make([]DeliveryRun, 0, len(tokens))
	for i, token := range tokens {
		run, err := parseRun(token)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Delivery run %q is not of the form (<liters>-<days>)", token).
				WithReportableDetails(map[string]any{
					"run":   token,
					"index": i,
				}).
				Mark(ierr.ErrMalformedRun)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func parseRun(token string) (DeliveryRun, error) {
	fields := strings.Split(token, runQtyDays)
	if len(fields) != 2 {
		return DeliveryRun{}, ierr.NewErrorf("run has %d separators, expected 1", len(fields)-1).Error()
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(fields[0]))
	if err != nil {
		return DeliveryRun{}, ierr.WithError(err).WithMessage("quantity").Error()
	}
	days, err := decimal.NewFromString(strings.TrimSpace(fields[1]))
	if err != nil {
		return DeliveryRun{}, ierr.WithError(err).WithMessage("day count").Error()
	}
	if qty.IsNegative() || days.IsNegative() {
		return DeliveryRun{}, ierr.NewError("quantity and day count must not be negative").Error()
	}

	return DeliveryRun{Quantity: qty, DayCount: days}, nil
}
