package billing

import (
	"testing"
	"time"

	"dairy-backend/internal/dateutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-07")
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, time.July, p.Month)
	assert.Equal(t, "2024-07", p.Token())
}

func TestParsePeriod_Rejected(t *testing.T) {
	tests := []string{
		"2024",       // single part
		"2024-07-01", // three parts
		"abcd-07",    // non-numeric year
		"2024-xy",    // non-numeric month
		"2024-00",    // month below range
		"2024-13",    // month above range
		"",           // empty
	}
	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			_, err := ParsePeriod(token)
			assert.ErrorIs(t, err, ErrMalformedPeriod)
		})
	}
}

func TestPeriod_LeapYearBoundary(t *testing.T) {
	p, err := ParsePeriod("2024-02")
	require.NoError(t, err)

	assert.Equal(t, dateutil.NewDate(2024, time.February, 1), p.Start())
	assert.Equal(t, dateutil.NewDate(2024, time.February, 29), p.End())

	assert.Equal(t, Within, p.Classify(dateutil.NewDate(2024, time.February, 29)))
	assert.Equal(t, Future, p.Classify(dateutil.NewDate(2024, time.March, 1)))
	assert.Equal(t, Prior, p.Classify(dateutil.NewDate(2024, time.January, 31)))
}

func TestPeriod_NonLeapFebruary(t *testing.T) {
	p, err := ParsePeriod("2023-02")
	require.NoError(t, err)
	assert.Equal(t, dateutil.NewDate(2023, time.February, 28), p.End())
}

func TestPeriod_DecemberRollsToNextYear(t *testing.T) {
	p := Period{Year: 2024, Month: time.December}
	assert.Equal(t, dateutil.NewDate(2024, time.December, 31), p.End())
	assert.Equal(t, Period{Year: 2025, Month: time.January}, p.Next())
}

// A date string must land in the same period no matter where the
// computation runs. An instant just before midnight UTC on the last day
// of the month is still "within"; one second later is "future". If
// dates leaked through the server's local zone this would flip for any
// process east of UTC.
func TestPeriod_MidnightUTCBoundary(t *testing.T) {
	p, err := ParsePeriod("2024-07")
	require.NoError(t, err)

	lastInstant := time.Date(2024, time.July, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Within, p.Classify(dateutil.FromTime(lastInstant)))

	firstOfNext := time.Date(2024, time.August, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, Future, p.Classify(dateutil.FromTime(firstOfNext)))

	// The same wall-clock instant expressed in IST is still July 31 UTC.
	ist := time.FixedZone("IST", 5*3600+30*60)
	assert.Equal(t, Within, p.Classify(dateutil.FromTime(lastInstant.In(ist))))
}

func TestPeriodOf(t *testing.T) {
	d, err := dateutil.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2024, Month: time.February}, PeriodOf(d))
}
