package repository

import (
	"codehabit_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRepository_CreateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		return
	}
	habits := NewHabitRepository(db)
	repo := NewCompletionRepository(db)
	ctx := context.Background()
	h := newTestHabit(t, habits)
	day, _ := util.ParseDate("2024-06-12")

	first, created, err := repo.Create(ctx, h.ID, day)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.Create(ctx, h.ID, day)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	dates, err := repo.ListDates(ctx, h.ID, day, day)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestCompletionRepository_ListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		return
	}
	habits := NewHabitRepository(db)
	repo := NewCompletionRepository(db)
	ctx := context.Background()
	h := newTestHabit(t, habits)

	for _, s := range []string{"2024-05-31", "2024-06-01", "2024-06-15", "2024-06-30", "2024-07-01"} {
		d, err := util.ParseDate(s)
		require.NoError(t, err)
		_, _, err = repo.Create(ctx, h.ID, d)
		require.NoError(t, err)
	}

	start, end, err := util.ParseMonth("2024-06")
	require.NoError(t, err)
	dates, err := repo.ListDates(ctx, h.ID, start, end)
	require.NoError(t, err)
	got := make([]string, len(dates))
	for i, d := range dates {
		got[i] = util.FormatDate(d)
	}
	assert.Equal(t, []string{"2024-06-30", "2024-06-15", "2024-06-01"}, got)

	byHabit, err := repo.ListDatesByHabits(ctx, []uint{h.ID}, start, end)
	require.NoError(t, err)
	assert.Len(t, byHabit[h.ID], 3)

	done, err := repo.CompletedOn(ctx, []uint{h.ID}, start)
	require.NoError(t, err)
	assert.True(t, done[h.ID])

	require.NoError(t, repo.Delete(ctx, h.ID, start))
	assert.ErrorIs(t, repo.Delete(ctx, h.ID, start), util.ErrCompletionNotFound)
}
