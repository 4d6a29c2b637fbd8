package dateutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-15")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.July, Day: 15}, d)

	_, err = ParseDate("15/07/2024")
	assert.Error(t, err)
	_, err = ParseDate("2024-07-32")
	assert.Error(t, err)
}

func TestFromTime_AlwaysUTC(t *testing.T) {
	// 2024-07-15 23:30 in IST is already 2024-07-15 18:00 UTC; 01:30 IST
	// on the 16th is still the 15th in UTC. The calendar date must track
	// UTC regardless of the source zone.
	ist := time.FixedZone("IST", 5*3600+30*60)
	early := time.Date(2024, time.July, 16, 1, 30, 0, 0, ist)
	assert.Equal(t, Date{Year: 2024, Month: time.July, Day: 15}, FromTime(early))
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, time.February, 29)
	b := NewDate(2024, time.March, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}

func TestDate_AddDays(t *testing.T) {
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 29).AddDays(1))
	assert.Equal(t, NewDate(2023, time.December, 31), NewDate(2024, time.January, 1).AddDays(-1))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.July, 15)
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-07-15"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}
