package invoice

import (
	"strconv"
	"strings"
	"time"

	ierr "github.com/flexprice/milkbill/internal/errors"
)

// BillingPeriod is a calendar month parsed from a label like "August - 2024"
type BillingPeriod struct {
	Label string     `json:"label"`
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 24)
	for month := time.January; month <= time.December; month++ {
		name := strings.ToLower(month.String())
		m[name] = month
		m[name[:3]] = month
	}
	return m
}()

// ParseBillingPeriod parses "<Month> - <Year>". Month names are English,
// full or three letter, in any case.
func ParseBillingPeriod(label string) (BillingPeriod, error) {
	monthText, yearText, ok := strings.Cut(label, "-")
	if !ok {
		return BillingPeriod{}, invalidPeriod(label, "expected <Month> - <Year>")
	}

	month, ok := monthsByName[strings.ToLower(strings.TrimSpace(monthText))]
	if !ok {
		return BillingPeriod{}, invalidPeriod(label, "unknown month name")
	}

	year, err := strconv.Atoi(strings.TrimSpace(yearText))
	if err != nil || year < 1 || year > 9999 {
		return BillingPeriod{}, invalidPeriod(label, "year must be a number between 1 and 9999")
	}

	return BillingPeriod{Label: label, Month: month, Year: year}, nil
}

func invalidPeriod(label, reason string) error {
	return ierr.NewErrorf("invalid billing period %q: %s", label, reason).
		WithHintf("Billing period %q must look like \"August - 2024\"", label).
		WithReportableDetails(map[string]any{
			"billing_period": label,
		}).
		Mark(ierr.ErrInvalidMonth)
}

// DaysInMonth is the Gregorian length of the month, leap years included
func (p BillingPeriod) DaysInMonth() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
