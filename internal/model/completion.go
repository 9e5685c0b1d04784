package model

import (
	"time"
)

// Completion marks a habit as done on one calendar day.
// swagger:model Completion
type Completion struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HabitID       uint      `gorm:"not null;uniqueIndex:idx_habit_completed_date" json:"habitId"`
	CompletedDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_habit_completed_date;index" json:"completedDate"`
	CreatedAt     time.Time `json:"createdAt"`
	Habit         *Habit    `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Completion) TableName() string {
	return "completions"
}
