package service

import (
	"codehabit_backend/internal/streak"
	"codehabit_backend/internal/util"
	"context"
	"time"
)

const (
	statsWeeks  = 4
	statsMonths = 3
)

type StatsService struct {
	Habits      HabitStore
	Completions CompletionStore
	Cache       *StatsCache
	Clock       Clock
}

func NewStatsService(habits HabitStore, completions CompletionStore, cache *StatsCache, clock Clock) *StatsService {
	return &StatsService{
		Habits:      habits,
		Completions: completions,
		Cache:       cache,
		Clock:       clock,
	}
}

// BestStreak identifies the habit with the highest current streak. HabitID and
// HabitName are null when no habit has a streak.
type BestStreak struct {
	HabitID   *uint   `json:"habitId"`
	HabitName *string `json:"habitName"`
	Streak    int     `json:"streak"`
}

type WeekStat struct {
	Week string `json:"week"`
	streak.Period
}

type MonthStat struct {
	Month string `json:"month"`
	streak.Period
}

type Overview struct {
	TotalHabits           int64       `json:"totalHabits"`
	ActiveHabits          int64       `json:"activeHabits"`
	TodayCompleted        int         `json:"todayCompleted"`
	TodayTotal            int         `json:"todayTotal"`
	WeeklyCompletionRate  float64     `json:"weeklyCompletionRate"`
	MonthlyCompletionRate float64     `json:"monthlyCompletionRate"`
	CurrentBestStreak     BestStreak  `json:"currentBestStreak"`
	WeeklyStats           []WeekStat  `json:"weeklyStats"`
	MonthlyStats          []MonthStat `json:"monthlyStats"`
}

type HabitStats struct {
	HabitID           uint        `json:"habitId"`
	HabitName         string      `json:"habitName"`
	CurrentStreak     int         `json:"currentStreak"`
	LongestStreak     int         `json:"longestStreak"`
	TotalCompletions  int         `json:"totalCompletions"`
	TotalPossibleDays int         `json:"totalPossibleDays"`
	CompletionRate    float64     `json:"completionRate"`
	WeeklyStats       []WeekStat  `json:"weeklyStats"`
	MonthlyStats      []MonthStat `json:"monthlyStats"`
}

// Overview aggregates all active habits as of today.
func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	today := s.Clock.Today()
	cached, version, ok := s.Cache.GetOverview(ctx, today)
	if ok {
		return cached, nil
	}

	habits, err := s.Habits.List(ctx, false)
	if err != nil {
		return nil, err
	}
	total, active, err := s.Habits.Count(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	dates, err := s.Completions.ListDatesByHabits(ctx, ids, today.AddDate(0, 0, -streakLookback), today)
	if err != nil {
		return nil, err
	}

	overview := &Overview{TotalHabits: total, ActiveHabits: active}
	inputs := make([]streak.HabitDates, 0, len(habits))
	for i := range habits {
		h := &habits[i]
		schedule, err := scheduleOf(h)
		if err != nil {
			return nil, err
		}
		completions := dates[h.ID]
		inputs = append(inputs, streak.HabitDates{Schedule: schedule, Completions: completions})

		if schedule.IsTarget(today) {
			overview.TodayTotal++
			if streak.CountInRange(completions, today, today) > 0 {
				overview.TodayCompleted++
			}
		}
		if current := streak.CurrentStreak(completions, schedule, today); current > overview.CurrentBestStreak.Streak {
			overview.CurrentBestStreak = BestStreak{HabitID: &h.ID, HabitName: &h.Name, Streak: current}
		}
	}

	overview.WeeklyCompletionRate = streak.PeriodStats(inputs, streak.WeekStart(today), today).Rate
	overview.MonthlyCompletionRate = streak.PeriodStats(inputs, streak.MonthStart(today), today).Rate
	overview.WeeklyStats = weekStats(inputs, today)
	overview.MonthlyStats = monthStats(inputs, today)

	s.Cache.SetOverview(ctx, today, version, overview)
	return overview, nil
}

// HabitStats reports streaks and rates of a single habit, archived or not.
func (s *StatsService) HabitStats(ctx context.Context, id uint) (*HabitStats, error) {
	habit, err := s.Habits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule, err := scheduleOf(habit)
	if err != nil {
		return nil, err
	}
	dates, err := s.Completions.ListDates(ctx, id, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	today := s.Clock.Today()
	created := util.CalendarDay(habit.CreatedAt, s.Clock.Location)
	inputs := []streak.HabitDates{{Schedule: schedule, Completions: dates}}

	return &HabitStats{
		HabitID:           habit.ID,
		HabitName:         habit.Name,
		CurrentStreak:     streak.CurrentStreak(dates, schedule, today),
		LongestStreak:     streak.LongestStreak(dates, schedule),
		TotalCompletions:  len(dates),
		TotalPossibleDays: streak.CountTargetDays(schedule, created, today),
		CompletionRate:    streak.CompletionRate(len(dates), schedule, created, today),
		WeeklyStats:       weekStats(inputs, today),
		MonthlyStats:      monthStats(inputs, today),
	}, nil
}

func weekStats(inputs []streak.HabitDates, today time.Time) []WeekStat {
	stats := streak.WindowStats(inputs, streak.WeeklyWindows(today, statsWeeks))
	out := make([]WeekStat, len(stats))
	for i, st := range stats {
		out[i] = WeekStat{Week: st.Label, Period: st.Period}
	}
	return out
}

func monthStats(inputs []streak.HabitDates, today time.Time) []MonthStat {
	stats := streak.WindowStats(inputs, streak.MonthlyWindows(today, statsMonths))
	out := make([]MonthStat, len(stats))
	for i, st := range stats {
		out[i] = MonthStat{Month: st.Label, Period: st.Period}
	}
	return out
}
