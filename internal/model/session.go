package model

import (
	"time"

	"gorm.io/datatypes"
)

// ExecutionResult is one entry of a session's run history.
// swagger:model ExecutionResult
type ExecutionResult struct {
	Output        string    `json:"output"`
	Error         string    `json:"error"`
	ExecutionTime float64   `json:"executionTime"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
}

// Session is a collaborative coding-interview room.
// swagger:model Session
type Session struct {
	ID               string                               `gorm:"primaryKey;type:varchar(8)" json:"sessionId"`
	CodeContent      string                               `gorm:"type:text" json:"codeContent"`
	Language         string                               `gorm:"type:varchar(20);not null;default:python" json:"language"`
	ExecutionResults datatypes.JSONSlice[ExecutionResult] `json:"executionResults"`
	Metadata         datatypes.JSONMap                    `json:"metadata"`
	CreatedAt        time.Time                            `json:"createdAt"`
	UpdatedAt        time.Time                            `json:"updatedAt"`
}

func (Session) TableName() string {
	return "sessions"
}
