package model

import (
	"time"
)

// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InterviewModels lists the tables owned by the interview service.
func InterviewModels() []interface{} {
	return []interface{}{&Session{}}
}

// HabitModels lists the tables owned by the habit tracker.
func HabitModels() []interface{} {
	return []interface{}{&Habit{}, &Completion{}}
}
