package repository

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/streak"
	"codehabit_backend/internal/util"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

// Create marks habitID done on date. A second call for the same day returns the
// row that already exists; created reports whether a new row was written.
func (r *CompletionRepository) Create(ctx context.Context, habitID uint, date time.Time) (completion *model.Completion, created bool, err error) {
	c := &model.Completion{HabitID: habitID, CompletedDate: streak.Day(date)}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "completed_date"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return c, true, nil
	}

	var existing model.Completion
	err = r.DB.WithContext(ctx).
		Where("habit_id = ? AND completed_date = ?", habitID, c.CompletedDate).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// Delete returns util.ErrCompletionNotFound when the habit was not completed on date.
func (r *CompletionRepository) Delete(ctx context.Context, habitID uint, date time.Time) error {
	res := r.DB.WithContext(ctx).
		Where("habit_id = ? AND completed_date = ?", habitID, streak.Day(date)).
		Delete(&model.Completion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrCompletionNotFound
	}
	return nil
}

// ListDates returns completion dates newest first. Zero start or end leaves that side open.
func (r *CompletionRepository) ListDates(ctx context.Context, habitID uint, start, end time.Time) ([]time.Time, error) {
	db := r.DB.WithContext(ctx).Model(&model.Completion{}).Where("habit_id = ?", habitID)
	db = dateRange(db, start, end)

	var dates []time.Time
	err := db.Order("completed_date DESC").Pluck("completed_date", &dates).Error
	return normalise(dates), err
}

// ListDatesByHabits loads completion dates for several habits in one query.
func (r *CompletionRepository) ListDatesByHabits(ctx context.Context, habitIDs []uint, start, end time.Time) (map[uint][]time.Time, error) {
	out := make(map[uint][]time.Time, len(habitIDs))
	if len(habitIDs) == 0 {
		return out, nil
	}

	var rows []model.Completion
	db := r.DB.WithContext(ctx).Select("habit_id", "completed_date").Where("habit_id IN ?", habitIDs)
	db = dateRange(db, start, end)
	if err := db.Order("completed_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.HabitID] = append(out[row.HabitID], streak.Day(row.CompletedDate))
	}
	return out, nil
}

// CompletedOn returns the ids of the given habits that were completed on date.
func (r *CompletionRepository) CompletedOn(ctx context.Context, habitIDs []uint, date time.Time) (map[uint]bool, error) {
	out := make(map[uint]bool, len(habitIDs))
	if len(habitIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Completion{}).
		Where("habit_id IN ? AND completed_date = ?", habitIDs, streak.Day(date)).
		Pluck("habit_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func dateRange(db *gorm.DB, start, end time.Time) *gorm.DB {
	if !start.IsZero() {
		db = db.Where("completed_date >= ?", streak.Day(start))
	}
	if !end.IsZero() {
		db = db.Where("completed_date <= ?", streak.Day(end))
	}
	return db
}

func normalise(dates []time.Time) []time.Time {
	for i := range dates {
		dates[i] = streak.Day(dates[i])
	}
	return dates
}
