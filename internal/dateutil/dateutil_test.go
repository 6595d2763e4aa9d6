package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTCDate(t *testing.T) {
	local := time.FixedZone("UTC+9", 9*60*60)

	tests := []struct {
		name  string
		input any
		want  time.Time
		ok    bool
	}{
		{"bare date is UTC midnight", "2023-01-31", time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"bare date with spaces", "  2024-02-29 ", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"RFC3339 with zone", "2023-07-20T09:00:00+02:00", time.Date(2023, 7, 20, 7, 0, 0, 0, time.UTC), true},
		{"ISO with millis", "2023-07-20T09:30:00.000Z", time.Date(2023, 7, 20, 9, 30, 0, 0, time.UTC), true},
		{"naive timestamp", "2023-07-20T09:30:00", time.Date(2023, 7, 20, 9, 30, 0, 0, time.UTC), true},
		{"epoch millis int64", int64(1672531200000), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"epoch millis float", float64(1672531200000), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"epoch millis string", "1672531200000", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"time value copied to UTC", time.Date(2023, 1, 1, 8, 0, 0, 0, local), time.Date(2022, 12, 31, 23, 0, 0, 0, time.UTC), true},
		{"garbage", "not-a-date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"month out of range", "2023-13-01", time.Time{}, false},
		{"day past end of month", "2023-02-31", time.Time{}, false},
		{"feb 29 outside a leap year", "2023-02-29", time.Time{}, false},
		{"feb 29 in 2100", "2100-02-29", time.Time{}, false},
		{"day zero", "2023-03-00", time.Time{}, false},
		{"zero time", time.Time{}, time.Time{}, false},
		{"nil pointer", (*time.Time)(nil), time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"unsupported type", struct{}{}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseUTCDate(tt.input).Get()
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseUTCDate_BareDateIgnoresHostZone(t *testing.T) {
	got := ParseUTCDate("2023-03-26").MustGet()
	assert.Equal(t, "2023-03-26", got.Format(DateLayout))
	assert.Equal(t, 0, got.Hour())
}

func TestFormatDate(t *testing.T) {
	late := time.Date(2023, 1, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	assert.Equal(t, "2023-01-02", FormatDate(late).MustGet())
	assert.Equal(t, "0999-03-04", FormatDate(time.Date(999, 3, 4, 0, 0, 0, 0, time.UTC)).MustGet())
	assert.True(t, FormatDate(time.Time{}).IsAbsent())
	assert.Equal(t, "", DateString(time.Time{}))
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)
	clock := time.Date(1999, 1, 1, 9, 15, 30, 500, time.UTC)

	got, ok := CombineDateTime(date, clock).Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 7, 20, 9, 15, 30, 500, time.UTC), got)

	assert.True(t, CombineDateTime(time.Time{}, clock).IsAbsent())
	assert.True(t, CombineDateTime(date, time.Time{}).IsAbsent())
}

func TestIsLastDayOfMonth(t *testing.T) {
	assert.True(t, IsLastDayOfMonth(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsLastDayOfMonth(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsLastDayOfMonth(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsLastDayOfMonth(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsLastDayOfMonth(time.Date(2023, 4, 29, 0, 0, 0, 0, time.UTC)))
}

func TestDayAndSameDay(t *testing.T) {
	ts := time.Date(2023, 7, 20, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC), Day(ts))
	assert.True(t, SameDay(ts, time.Date(2023, 7, 20, 1, 0, 0, 0, time.UTC)))
	assert.False(t, SameDay(ts, time.Date(2023, 7, 21, 0, 0, 0, 0, time.UTC)))
}
