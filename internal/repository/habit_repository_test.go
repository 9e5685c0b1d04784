package repository

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHabit(t *testing.T, repo *HabitRepository) *model.Habit {
	t.Helper()
	h := &model.Habit{
		Name:       "Read",
		Color:      util.DefaultHabitColor,
		Icon:       util.DefaultHabitIcon,
		Frequency:  util.FrequencyDaily,
		TargetDays: util.FrequencyDays[util.FrequencyDaily],
		IsActive:   true,
	}
	require.NoError(t, repo.Create(context.Background(), h))
	t.Cleanup(func() {
		repo.DB.Exec("DELETE FROM completions WHERE habit_id = ?", h.ID)
		repo.DB.Exec("DELETE FROM habits WHERE id = ?", h.ID)
	})
	return h
}

func TestHabitRepository_UpdateArchive(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		return
	}
	repo := NewHabitRepository(db)
	ctx := context.Background()
	h := newTestHabit(t, repo)

	updated, err := repo.Update(ctx, h.ID, map[string]interface{}{"name": "Read more"})
	require.NoError(t, err)
	assert.Equal(t, "Read more", updated.Name)
	assert.Equal(t, util.DefaultHabitColor, updated.Color)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, []int(updated.TargetDays))

	require.NoError(t, repo.Archive(ctx, h.ID))
	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, h.ID, a.ID)
	}
	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	found := false
	for _, a := range all {
		found = found || a.ID == h.ID
	}
	assert.True(t, found)

	_, err = repo.Update(ctx, 0, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, util.ErrHabitNotFound)
}

func TestHabitRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	if db == nil {
		return
	}
	repo := NewHabitRepository(db)
	completions := NewCompletionRepository(db)
	ctx := context.Background()
	h := newTestHabit(t, repo)

	_, _, err := completions.Create(ctx, h.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, h.ID))
	_, err = repo.Get(ctx, h.ID)
	assert.ErrorIs(t, err, util.ErrHabitNotFound)

	dates, err := completions.ListDates(ctx, h.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, dates)

	assert.ErrorIs(t, repo.Delete(ctx, h.ID), util.ErrHabitNotFound)
}
