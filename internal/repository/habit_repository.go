package repository

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type HabitRepository struct {
	DB *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{DB: db}
}

func (r *HabitRepository) Create(ctx context.Context, habit *model.Habit) error {
	return r.DB.WithContext(ctx).Create(habit).Error
}

// Get returns util.ErrHabitNotFound when no row matches. Archived habits are found too.
func (r *HabitRepository) Get(ctx context.Context, id uint) (*model.Habit, error) {
	var habit model.Habit
	err := r.DB.WithContext(ctx).First(&habit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

// List returns habits newest first, archived ones only when includeInactive is set.
func (r *HabitRepository) List(ctx context.Context, includeInactive bool) ([]model.Habit, error) {
	var habits []model.Habit
	db := r.DB.WithContext(ctx).Order("created_at DESC, id DESC")
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Find(&habits).Error
	return habits, err
}

// Count returns the number of habits and how many of them are active.
func (r *HabitRepository) Count(ctx context.Context) (total, active int64, err error) {
	db := r.DB.WithContext(ctx).Model(&model.Habit{})
	if err = db.Count(&total).Error; err != nil {
		return
	}
	err = r.DB.WithContext(ctx).Model(&model.Habit{}).Where("is_active = ?", true).Count(&active).Error
	return
}

// Update applies the given columns only.
func (r *HabitRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Habit, error) {
	if len(fields) > 0 {
		res := r.DB.WithContext(ctx).Model(&model.Habit{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, util.ErrHabitNotFound
		}
	}
	return r.Get(ctx, id)
}

func (r *HabitRepository) Archive(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&model.Habit{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrHabitNotFound
	}
	return nil
}

// Delete removes the habit and all of its completions.
func (r *HabitRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&model.Completion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Habit{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrHabitNotFound
		}
		return nil
	})
}
