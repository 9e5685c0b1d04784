// Package streak computes habit streaks and completion rates from completion dates.
//
// Every function is pure: the caller supplies "today", and all dates are calendar
// days normalised with Day, so the results never depend on the wall clock.
package streak

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// MaxStreakWalk bounds the backward walk of CurrentStreak.
const MaxStreakWalk = 400

// Schedule is a weekday bitmask; bit n is set when weekday n (0 = Sunday) is a target day.
type Schedule uint8

// EveryDay targets all seven weekdays.
const EveryDay Schedule = 1<<7 - 1

// NewSchedule builds a schedule from weekday numbers 0-6.
func NewSchedule(days []int) (Schedule, error) {
	var s Schedule
	for _, d := range days {
		if d < 0 || d > 6 {
			return 0, fmt.Errorf("weekday %d out of range 0-6", d)
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

// MustSchedule is NewSchedule for values already known to be valid.
func MustSchedule(days ...int) Schedule {
	s, err := NewSchedule(days)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Schedule) Includes(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s Schedule) IsTarget(t time.Time) bool {
	return s.Includes(t.Weekday())
}

// Days lists the target weekdays in ascending order.
func (s Schedule) Days() []int {
	days := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if s.Includes(time.Weekday(d)) {
			days = append(days, d)
		}
	}
	return days
}

// Day normalises t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type dateSet map[time.Time]struct{}

func newDateSet(dates []time.Time) dateSet {
	set := make(dateSet, len(dates))
	for _, d := range dates {
		set[Day(d)] = struct{}{}
	}
	return set
}

func (s dateSet) has(d time.Time) bool {
	_, ok := s[d]
	return ok
}

// CurrentStreak counts consecutive completed target days ending today or, when today
// is not yet completed or not a target day, ending yesterday. Non-target days are
// skipped without breaking the streak.
func CurrentStreak(completions []time.Time, schedule Schedule, today time.Time) int {
	if len(completions) == 0 {
		return 0
	}
	done := newDateSet(completions)

	day := Day(today)
	streak := 0
	// an incomplete or off-schedule today never penalises the streak
	if schedule.IsTarget(day) && done.has(day) {
		streak++
	}
	day = day.AddDate(0, 0, -1)

	for i := 0; i < MaxStreakWalk; i++ {
		if schedule.IsTarget(day) {
			if !done.has(day) {
				break
			}
			streak++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak finds the longest run of completions with no missed target day
// between neighbours.
func LongestStreak(completions []time.Time, schedule Schedule) int {
	if len(completions) == 0 {
		return 0
	}
	sorted := make([]time.Time, len(completions))
	for i, c := range completions {
		sorted[i] = Day(c)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, current := 1, 1
	for i := 1; i < len(sorted); i++ {
		if countBetween(schedule, sorted[i-1], sorted[i]) == 0 {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// countBetween counts target days strictly between a and b.
func countBetween(schedule Schedule, a, b time.Time) int {
	return CountTargetDays(schedule, a.AddDate(0, 0, 1), b.AddDate(0, 0, -1))
}

// CountTargetDays counts target days in [from, to], inclusive. It is 0 when from is after to.
func CountTargetDays(schedule Schedule, from, to time.Time) int {
	from, to = Day(from), Day(to)
	if from.After(to) || schedule == 0 {
		return 0
	}
	days := int(to.Sub(from).Hours()/24) + 1
	weeks, rest := days/7, days%7

	count := weeks * len(schedule.Days())
	wd := from.Weekday()
	for i := 0; i < rest; i++ {
		if schedule.Includes((wd + time.Weekday(i)) % 7) {
			count++
		}
	}
	return count
}

// Rate is completed/total as a percentage rounded to one decimal, 0 when total is 0.
func Rate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// CompletionRate relates all completions to the target days since the habit was created.
func CompletionRate(totalCompletions int, schedule Schedule, createdAt, today time.Time) float64 {
	return Rate(totalCompletions, CountTargetDays(schedule, createdAt, today))
}

// HabitDates is the input of PeriodStats for a single habit.
type HabitDates struct {
	Schedule    Schedule
	Completions []time.Time
}

// Period aggregates completions against possible target days over a date range.
type Period struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// PeriodStats sums completions inside [start, end] and target days in the same range
// across habits.
func PeriodStats(habits []HabitDates, start, end time.Time) Period {
	start, end = Day(start), Day(end)
	var p Period
	for _, h := range habits {
		p.Completed += CountInRange(h.Completions, start, end)
		p.Total += CountTargetDays(h.Schedule, start, end)
	}
	p.Rate = Rate(p.Completed, p.Total)
	return p
}

// CountInRange counts dates that fall within [start, end].
func CountInRange(dates []time.Time, start, end time.Time) int {
	start, end = Day(start), Day(end)
	n := 0
	for _, d := range dates {
		d = Day(d)
		if !d.Before(start) && !d.After(end) {
			n++
		}
	}
	return n
}
