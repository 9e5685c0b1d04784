package model

import (
	"gorm.io/datatypes"
)

// TargetDays holds weekday numbers, 0 = Sunday.
type TargetDays = datatypes.JSONSlice[int]

// Habit is a recurring activity tracked per calendar day.
// swagger:model Habit
type Habit struct {
	BaseModel
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Color       string     `gorm:"type:varchar(7);default:'#6366f1'" json:"color"`
	Icon        string     `gorm:"type:varchar(50);default:'check'" json:"icon"`
	Frequency   string     `gorm:"type:varchar(20);default:'daily'" json:"frequency"`
	TargetDays  TargetDays `json:"targetDays"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"isActive"`
}

func (Habit) TableName() string {
	return "habits"
}
