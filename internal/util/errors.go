package util

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionIDExhausted = errors.New("failed to generate unique session ID after 5 attempts")
	ErrInvalidLanguage    = errors.New("language must be python or javascript")

	ErrHabitNotFound      = errors.New("habit not found")
	ErrCompletionNotFound = errors.New("completion not found")
	ErrInvalidDate        = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidMonth       = errors.New("invalid month format, use YYYY-MM")
	ErrInvalidTargetDays  = errors.New("targetDays must only contain values 0-6")
	ErrBlankName          = errors.New("name cannot be empty")
)
