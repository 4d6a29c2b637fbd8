// Package billing holds the pure money computations for the dairy
// business: resolving billing months to date windows, computing a
// customer's monthly statement, and merging imported delivery/payment
// batches. Nothing in this package touches storage; callers hand in
// already-fetched records.
package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dairy-backend/internal/dateutil"
)

// ErrMalformedPeriod is returned for billing-month tokens that are not
// "YYYY-MM" with a month in 1..12. Malformed tokens are always rejected,
// never silently defaulted to the current month.
var ErrMalformedPeriod = errors.New("malformed billing period token")

// Period is a calendar billing month.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a "YYYY-MM" token.
func ParsePeriod(token string) (Period, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrMalformedPeriod, token)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Period{}, fmt.Errorf("%w: %q", ErrMalformedPeriod, token)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %q", ErrMalformedPeriod, token)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Token renders the period back to "YYYY-MM".
func (p Period) Token() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start is the first calendar day of the month.
func (p Period) Start() dateutil.Date {
	return dateutil.NewDate(p.Year, p.Month, 1)
}

// End is the last calendar day of the month, inclusive. Going through
// day zero of the following month handles month length and leap years.
func (p Period) End() dateutil.Date {
	return dateutil.NewDate(p.Year, p.Month+1, 0)
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	d := dateutil.NewDate(p.Year, p.Month+1, 1)
	return Period{Year: d.Year, Month: d.Month}
}

// Placement of a date relative to a period.
type Placement int

const (
	Prior Placement = iota
	Within
	Future
)

func (pl Placement) String() string {
	switch pl {
	case Prior:
		return "prior"
	case Within:
		return "within"
	default:
		return "future"
	}
}

// Classify places a date relative to the period's inclusive window.
func (p Period) Classify(d dateutil.Date) Placement {
	switch {
	case d.Before(p.Start()):
		return Prior
	case d.After(p.End()):
		return Future
	default:
		return Within
	}
}

// Contains reports whether d falls inside the period, both ends inclusive.
func (p Period) Contains(d dateutil.Date) bool {
	return p.Classify(d) == Within
}

// PeriodOf returns the billing month a date belongs to.
func PeriodOf(d dateutil.Date) Period {
	return Period{Year: d.Year, Month: d.Month}
}
