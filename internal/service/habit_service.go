package service

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/streak"
	"codehabit_backend/internal/util"
	"context"
	"strings"
	"time"
)

// HabitStore is the habit persistence used by the services.
type HabitStore interface {
	Create(ctx context.Context, habit *model.Habit) error
	Get(ctx context.Context, id uint) (*model.Habit, error)
	List(ctx context.Context, includeInactive bool) ([]model.Habit, error)
	Count(ctx context.Context) (total, active int64, err error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Habit, error)
	Archive(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// CompletionStore is the completion persistence used by the services.
type CompletionStore interface {
	Create(ctx context.Context, habitID uint, date time.Time) (*model.Completion, bool, error)
	Delete(ctx context.Context, habitID uint, date time.Time) error
	ListDates(ctx context.Context, habitID uint, start, end time.Time) ([]time.Time, error)
	ListDatesByHabits(ctx context.Context, habitIDs []uint, start, end time.Time) (map[uint][]time.Time, error)
	CompletedOn(ctx context.Context, habitIDs []uint, date time.Time) (map[uint]bool, error)
}

// Clock decides which calendar day is "today".
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return util.CalendarDay(now(), c.Location)
}

// streakLookback is how far back completions are loaded to evaluate a current streak.
const streakLookback = streak.MaxStreakWalk + 1

type HabitService struct {
	Habits      HabitStore
	Completions CompletionStore
	Cache       *StatsCache
	Clock       Clock
}

func NewHabitService(habits HabitStore, completions CompletionStore, cache *StatsCache, clock Clock) *HabitService {
	return &HabitService{
		Habits:      habits,
		Completions: completions,
		Cache:       cache,
		Clock:       clock,
	}
}

type CreateHabitRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=1000"`
	Color       string `json:"color" binding:"omitempty,hexcolor,len=7"`
	Icon        string `json:"icon" binding:"omitempty,habiticon"`
	Frequency   string `json:"frequency" binding:"omitempty,oneof=daily weekdays weekends custom"`
	TargetDays  []int  `json:"targetDays" binding:"omitempty,dive,min=0,max=6"`
}

// UpdateHabitRequest carries only the fields the caller wants to change.
type UpdateHabitRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Color       *string `json:"color" binding:"omitempty,hexcolor,len=7"`
	Icon        *string `json:"icon" binding:"omitempty,habiticon"`
	Frequency   *string `json:"frequency" binding:"omitempty,oneof=daily weekdays weekends custom"`
	TargetDays  []int   `json:"targetDays" binding:"omitempty,dive,min=0,max=6"`
	IsActive    *bool   `json:"isActive"`
}

// HabitView is a habit enriched with today's state.
type HabitView struct {
	model.Habit
	CompletedToday bool `json:"completedToday"`
	CurrentStreak  int  `json:"currentStreak"`
}

type HabitDetail struct {
	HabitView
	LongestStreak    int     `json:"longestStreak"`
	TotalCompletions int     `json:"totalCompletions"`
	CompletionRate   float64 `json:"completionRate"`
}

func scheduleOf(h *model.Habit) (streak.Schedule, error) {
	return streak.NewSchedule(h.TargetDays)
}

func (s *HabitService) Create(ctx context.Context, req CreateHabitRequest) (*model.Habit, error) {
	name, err := habitName(req.Name)
	if err != nil {
		return nil, err
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = util.FrequencyDaily
	}
	targetDays := req.TargetDays
	if len(targetDays) == 0 {
		targetDays = defaultTargetDays(frequency)
	}
	if _, err := streak.NewSchedule(targetDays); err != nil {
		return nil, util.ErrInvalidTargetDays
	}

	habit := &model.Habit{
		Name:        name,
		Description: req.Description,
		Color:       orDefault(req.Color, util.DefaultHabitColor),
		Icon:        orDefault(req.Icon, util.DefaultHabitIcon),
		Frequency:   frequency,
		TargetDays:  targetDays,
		IsActive:    true,
	}
	if err := s.Habits.Create(ctx, habit); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)
	return habit, nil
}

// habitName trims surrounding whitespace and rejects names that are left empty.
func habitName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", util.ErrBlankName
	}
	return name, nil
}

func defaultTargetDays(frequency string) []int {
	days, ok := util.FrequencyDays[frequency]
	if !ok {
		days = util.FrequencyDays[util.FrequencyDaily]
	}
	return append([]int(nil), days...)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// List returns habits with completedToday and currentStreak filled in.
func (s *HabitService) List(ctx context.Context, includeInactive bool) ([]HabitView, error) {
	habits, err := s.Habits.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	today := s.Clock.Today()

	ids := make([]uint, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	dates, err := s.Completions.ListDatesByHabits(ctx, ids, today.AddDate(0, 0, -streakLookback), today)
	if err != nil {
		return nil, err
	}
	done, err := s.Completions.CompletedOn(ctx, ids, today)
	if err != nil {
		return nil, err
	}

	views := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		schedule, err := scheduleOf(&h)
		if err != nil {
			return nil, err
		}
		views = append(views, HabitView{
			Habit:          h,
			CompletedToday: done[h.ID],
			CurrentStreak:  streak.CurrentStreak(dates[h.ID], schedule, today),
		})
	}
	return views, nil
}

// Get returns a habit with its streaks and completion rate.
func (s *HabitService) Get(ctx context.Context, id uint) (*HabitDetail, error) {
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

	completedToday := false
	for _, d := range dates {
		if d.Equal(today) {
			completedToday = true
			break
		}
	}

	return &HabitDetail{
		HabitView: HabitView{
			Habit:          *habit,
			CompletedToday: completedToday,
			CurrentStreak:  streak.CurrentStreak(dates, schedule, today),
		},
		LongestStreak:    streak.LongestStreak(dates, schedule),
		TotalCompletions: len(dates),
		CompletionRate:   streak.CompletionRate(len(dates), schedule, created, today),
	}, nil
}

// Update changes only the fields present in req.
func (s *HabitService) Update(ctx context.Context, id uint, req UpdateHabitRequest) (*model.Habit, error) {
	fields := make(map[string]interface{})
	if req.Name != nil {
		name, err := habitName(*req.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Frequency != nil {
		fields["frequency"] = *req.Frequency
	}
	if req.TargetDays != nil {
		if len(req.TargetDays) == 0 {
			return nil, util.ErrInvalidTargetDays
		}
		if _, err := streak.NewSchedule(req.TargetDays); err != nil {
			return nil, util.ErrInvalidTargetDays
		}
		fields["target_days"] = model.TargetDays(req.TargetDays)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	habit, err := s.Habits.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		s.Cache.Invalidate(ctx)
	}
	return habit, nil
}

// Delete archives the habit, or removes it with its completions when permanent is set.
func (s *HabitService) Delete(ctx context.Context, id uint, permanent bool) error {
	var err error
	if permanent {
		err = s.Habits.Delete(ctx, id)
	} else {
		err = s.Habits.Archive(ctx, id)
	}
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}
