package service

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"time"
)

type CompletionService struct {
	Habits      HabitStore
	Completions CompletionStore
	Cache       *StatsCache
}

func NewCompletionService(habits HabitStore, completions CompletionStore, cache *StatsCache) *CompletionService {
	return &CompletionService{Habits: habits, Completions: completions, Cache: cache}
}

type CompletionRequest struct {
	HabitID uint   `json:"habitId" binding:"required"`
	Date    string `json:"date" binding:"required"`
}

// CompletionView renders completed_date as a plain calendar date.
type CompletionView struct {
	ID            uint      `json:"id"`
	HabitID       uint      `json:"habitId"`
	CompletedDate string    `json:"completedDate"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CompletionList struct {
	HabitID     uint     `json:"habitId"`
	Completions []string `json:"completions"`
}

// CompletionQuery selects a date range: Month wins over StartDate/EndDate, and empty
// values leave that side of the range open.
type CompletionQuery struct {
	Month     string `form:"month"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

func newCompletionView(c *model.Completion) *CompletionView {
	return &CompletionView{
		ID:            c.ID,
		HabitID:       c.HabitID,
		CompletedDate: util.FormatDate(c.CompletedDate),
		CreatedAt:     c.CreatedAt,
	}
}

// Mark records a completion. Marking the same day twice returns the existing row.
func (s *CompletionService) Mark(ctx context.Context, req CompletionRequest) (*CompletionView, error) {
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.Habits.Get(ctx, req.HabitID); err != nil {
		return nil, err
	}

	completion, created, err := s.Completions.Create(ctx, req.HabitID, date)
	if err != nil {
		return nil, err
	}
	if created {
		s.Cache.Invalidate(ctx)
	}
	return newCompletionView(completion), nil
}

func (s *CompletionService) Unmark(ctx context.Context, req CompletionRequest) error {
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return err
	}
	if err := s.Completions.Delete(ctx, req.HabitID, date); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

// List returns the completion dates of a habit, newest first.
func (s *CompletionService) List(ctx context.Context, habitID uint, q CompletionQuery) (*CompletionList, error) {
	var start, end time.Time
	var err error
	if q.Month != "" {
		if start, end, err = util.ParseMonth(q.Month); err != nil {
			return nil, err
		}
	} else {
		if q.StartDate != "" {
			if start, err = util.ParseDate(q.StartDate); err != nil {
				return nil, err
			}
		}
		if q.EndDate != "" {
			if end, err = util.ParseDate(q.EndDate); err != nil {
				return nil, err
			}
		}
	}

	if _, err := s.Habits.Get(ctx, habitID); err != nil {
		return nil, err
	}
	dates, err := s.Completions.ListDates(ctx, habitID, start, end)
	if err != nil {
		return nil, err
	}

	list := &CompletionList{HabitID: habitID, Completions: make([]string, len(dates))}
	for i, d := range dates {
		list.Completions[i] = util.FormatDate(d)
	}
	return list, nil
}
