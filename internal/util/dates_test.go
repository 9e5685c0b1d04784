package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	for _, bad := range []string{"", "2024-2-29", "2023-02-29", "2024-13-01", "2024-01-01T00:00:00Z", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestParseMonth(t *testing.T) {
	start, end, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", FormatDate(start))
	assert.Equal(t, "2024-02-29", FormatDate(end))

	_, end, err = ParseMonth("2023-12")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", FormatDate(end))

	for _, bad := range []string{"2024", "2024-1", "2024-00", "2024-13", "24-01"} {
		_, _, err := ParseMonth(bad)
		assert.ErrorIs(t, err, ErrInvalidMonth, bad)
	}
}

func TestCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC is already the next day in Tokyo
	instant := time.Date(2024, 6, 12, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-13", FormatDate(CalendarDay(instant, tokyo)))
	assert.Equal(t, "2024-06-12", FormatDate(CalendarDay(instant, time.UTC)))
	assert.Equal(t, time.UTC, CalendarDay(instant, tokyo).Location())
}
