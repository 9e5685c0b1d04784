package util

import (
	"regexp"
	"time"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseMonth returns the first and last day of a YYYY-MM month.
func ParseMonth(s string) (time.Time, time.Time, error) {
	if !monthPattern.MatchString(s) {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start, err := time.ParseInLocation(MonthFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, -1), nil
}

// CalendarDay drops the clock part of t as seen in loc and returns that date at UTC midnight.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
