package service

import (
	"codehabit_backend/internal/model"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionStore) List(ctx context.Context, limit int) ([]model.Session, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Session), args.Error(1)
}

func (m *MockSessionStore) UpdateCode(ctx context.Context, id, code string) (*model.Session, error) {
	args := m.Called(ctx, id, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHabitStore struct {
	mock.Mock
}

func (m *MockHabitStore) Create(ctx context.Context, habit *model.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitStore) Get(ctx context.Context, id uint) (*model.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Habit), args.Error(1)
}

func (m *MockHabitStore) List(ctx context.Context, includeInactive bool) ([]model.Habit, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Habit), args.Error(1)
}

func (m *MockHabitStore) Count(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockHabitStore) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Habit, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Habit), args.Error(1)
}

func (m *MockHabitStore) Archive(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHabitStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCompletionStore struct {
	mock.Mock
}

func (m *MockCompletionStore) Create(ctx context.Context, habitID uint, date time.Time) (*model.Completion, bool, error) {
	args := m.Called(ctx, habitID, date)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Completion), args.Bool(1), args.Error(2)
}

func (m *MockCompletionStore) Delete(ctx context.Context, habitID uint, date time.Time) error {
	args := m.Called(ctx, habitID, date)
	return args.Error(0)
}

func (m *MockCompletionStore) ListDates(ctx context.Context, habitID uint, start, end time.Time) ([]time.Time, error) {
	args := m.Called(ctx, habitID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockCompletionStore) ListDatesByHabits(ctx context.Context, habitIDs []uint, start, end time.Time) (map[uint][]time.Time, error) {
	args := m.Called(ctx, habitIDs, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint][]time.Time), args.Error(1)
}

func (m *MockCompletionStore) CompletedOn(ctx context.Context, habitIDs []uint, date time.Time) (map[uint]bool, error) {
	args := m.Called(ctx, habitIDs, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]bool), args.Error(1)
}

// fixedClock pins "today" to the given date in UTC.
func fixedClock(date string) Clock {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	noon := t.Add(12 * time.Hour)
	return Clock{Location: time.UTC, Now: func() time.Time { return noon }}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func days(ss ...string) []time.Time {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		out[i] = day(s)
	}
	return out
}
