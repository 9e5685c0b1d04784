package service

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompletionService_Mark(t *testing.T) {
	habits := new(MockHabitStore)
	habits.On("Get", mock.Anything, uint(1)).Return(&model.Habit{}, nil)

	completions := new(MockCompletionStore)
	completions.On("Create", mock.Anything, uint(1), sameDay(day("2024-06-12"))).
		Return(&model.Completion{ID: 9, HabitID: 1, CompletedDate: day("2024-06-12")}, true, nil)

	svc := NewCompletionService(habits, completions, nil)
	view, err := svc.Mark(context.Background(), CompletionRequest{HabitID: 1, Date: "2024-06-12"})
	require.NoError(t, err)
	assert.Equal(t, uint(9), view.ID)
	assert.Equal(t, "2024-06-12", view.CompletedDate)
}

func TestCompletionService_MarkValidation(t *testing.T) {
	habits := new(MockHabitStore)
	habits.On("Get", mock.Anything, uint(404)).Return(nil, util.ErrHabitNotFound)
	completions := new(MockCompletionStore)
	svc := NewCompletionService(habits, completions, nil)

	_, err := svc.Mark(context.Background(), CompletionRequest{HabitID: 1, Date: "12/06/2024"})
	assert.ErrorIs(t, err, util.ErrInvalidDate)

	_, err = svc.Mark(context.Background(), CompletionRequest{HabitID: 404, Date: "2024-06-12"})
	assert.ErrorIs(t, err, util.ErrHabitNotFound)
	completions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompletionService_Unmark(t *testing.T) {
	completions := new(MockCompletionStore)
	completions.On("Delete", mock.Anything, uint(1), sameDay(day("2024-06-12"))).Return(nil)
	completions.On("Delete", mock.Anything, uint(1), sameDay(day("2024-06-13"))).Return(util.ErrCompletionNotFound)

	svc := NewCompletionService(new(MockHabitStore), completions, nil)
	require.NoError(t, svc.Unmark(context.Background(), CompletionRequest{HabitID: 1, Date: "2024-06-12"}))
	assert.ErrorIs(t, svc.Unmark(context.Background(), CompletionRequest{HabitID: 1, Date: "2024-06-13"}), util.ErrCompletionNotFound)
	assert.ErrorIs(t, svc.Unmark(context.Background(), CompletionRequest{HabitID: 1, Date: "yesterday"}), util.ErrInvalidDate)
}

func TestCompletionService_ListByMonth(t *testing.T) {
	habits := new(MockHabitStore)
	habits.On("Get", mock.Anything, uint(1)).Return(&model.Habit{}, nil)

	completions := new(MockCompletionStore)
	completions.On("ListDates", mock.Anything, uint(1), sameDay(day("2024-02-01")), sameDay(day("2024-02-29"))).
		Return(days("2024-02-29", "2024-02-03"), nil)

	svc := NewCompletionService(habits, completions, nil)
	// month wins over the explicit range
	list, err := svc.List(context.Background(), 1, CompletionQuery{Month: "2024-02", StartDate: "2023-01-01"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), list.HabitID)
	assert.Equal(t, []string{"2024-02-29", "2024-02-03"}, list.Completions)
}

func TestCompletionService_ListOpenRange(t *testing.T) {
	habits := new(MockHabitStore)
	habits.On("Get", mock.Anything, uint(1)).Return(&model.Habit{}, nil)

	completions := new(MockCompletionStore)
	completions.On("ListDates", mock.Anything, uint(1), sameDay(day("2024-06-01")), time.Time{}).
		Return([]time.Time{}, nil)

	svc := NewCompletionService(habits, completions, nil)
	list, err := svc.List(context.Background(), 1, CompletionQuery{StartDate: "2024-06-01"})
	require.NoError(t, err)
	assert.Empty(t, list.Completions)
	assert.NotNil(t, list.Completions)
}

func TestCompletionService_ListErrors(t *testing.T) {
	habits := new(MockHabitStore)
	habits.On("Get", mock.Anything, uint(2)).Return(nil, util.ErrHabitNotFound)
	habits.On("Get", mock.Anything, uint(3)).Return(&model.Habit{}, nil)
	completions := new(MockCompletionStore)
	completions.On("ListDates", mock.Anything, uint(3), mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	svc := NewCompletionService(habits, completions, nil)

	_, err := svc.List(context.Background(), 1, CompletionQuery{Month: "2024-13"})
	assert.ErrorIs(t, err, util.ErrInvalidMonth)
	_, err = svc.List(context.Background(), 1, CompletionQuery{EndDate: "2024-6-1"})
	assert.ErrorIs(t, err, util.ErrInvalidDate)
	habits.AssertNotCalled(t, "Get", mock.Anything, uint(1))

	_, err = svc.List(context.Background(), 2, CompletionQuery{})
	assert.ErrorIs(t, err, util.ErrHabitNotFound)

	_, err = svc.List(context.Background(), 3, CompletionQuery{})
	assert.EqualError(t, err, "db down")
}
