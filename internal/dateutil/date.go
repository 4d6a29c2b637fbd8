package dateutil

import (
	"encoding/json"
	"fmt"
	"time"
)

// All calendar math in this system happens in UTC. A date string like
// "2024-07-15" must resolve to the same day no matter where the process
// runs, so dates are never interpreted in the server's local zone.

const Layout = "2006-01-02"

// Date is a calendar date with day granularity and no time component.
// The zero value is invalid; construct via NewDate, ParseDate or FromTime.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Date so Feb 30 etc. roll over the same way
	// the standard library rolls them.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a "YYYY-MM-DD" string as a UTC calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// FromTime truncates a time to its UTC calendar date.
func FromTime(t time.Time) Date {
	u := t.In(time.UTC)
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// Today returns the current UTC calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Time().Format(Layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Now returns the current time in UTC. Kept alongside Date so callers
// have a single package for "what time is it" questions.
func Now() time.Time {
	return time.Now().UTC()
}

// Common layouts used in reports and filenames.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006"
)
