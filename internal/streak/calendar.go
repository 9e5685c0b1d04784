package streak

import (
	"fmt"
	"time"
)

// WeekStart returns the Sunday on or before d.
func WeekStart(d time.Time) time.Time {
	d = Day(d)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ISOWeek labels d as YYYY-Www.
func ISOWeek(d time.Time) string {
	year, week := Day(d).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Window is a labelled date range. End never passes the "today" it was built from.
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// WeeklyWindows returns the last n Sunday-start weeks, oldest first. The current
// week ends at today.
func WeeklyWindows(today time.Time, n int) []Window {
	today = Day(today)
	current := WeekStart(today)
	windows := make([]Window, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 6)
		if end.After(today) {
			end = today
		}
		windows = append(windows, Window{Label: ISOWeek(start), Start: start, End: end})
	}
	return windows
}

// MonthlyWindows returns the last n calendar months, oldest first. The current
// month ends at today.
func MonthlyWindows(today time.Time, n int) []Window {
	today = Day(today)
	current := MonthStart(today)
	windows := make([]Window, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		if end.After(today) {
			end = today
		}
		windows = append(windows, Window{Label: start.Format("2006-01"), Start: start, End: end})
	}
	return windows
}

// WindowStat is a Period tagged with its window label.
type WindowStat struct {
	Label string `json:"label"`
	Period
}

// WindowStats evaluates PeriodStats for each window.
func WindowStats(habits []HabitDates, windows []Window) []WindowStat {
	stats := make([]WindowStat, 0, len(windows))
	for _, w := range windows {
		stats = append(stats, WindowStat{Label: w.Label, Period: PeriodStats(habits, w.Start, w.End)})
	}
	return stats
}
