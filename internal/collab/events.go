package collab

import (
	"encoding/json"
	"time"
)

// Inbound event types.
const (
	EventJoinSession     = "join_session"
	EventLeaveSession    = "leave_session"
	EventCodeChange      = "code_change"
	EventExecuteCode     = "execute_code"
	EventExecutionResult = "execution_result"
	EventLanguageChange  = "language_change"
	EventCursorMove      = "cursor_move"
	EventTyping          = "typing"
)

// Outbound event types.
const (
	EventSessionJoined       = "session_joined"
	EventParticipantsChanged = "participants_changed"
	EventCodeUpdate          = "code_update"
	EventExecutionStarted    = "execution_started"
	EventLanguageChanged     = "language_changed"
	EventCursorUpdate        = "cursor_update"
	EventUserTyping          = "user_typing"
	EventError               = "error"
)

// Error codes carried by EventError.
const (
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeJoinError       = "JOIN_ERROR"
	CodeInvalidPayload  = "INVALID_PAYLOAD"
	CodeUnknownEvent    = "UNKNOWN_EVENT"
	CodeInvalidLanguage = "INVALID_LANGUAGE"
)

// Message is the frame format in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type roomed interface {
	room() string
}

type roomRef struct {
	SessionID string `json:"sessionId"`
}

func (r roomRef) room() string { return r.SessionID }

type joinPayload struct {
	roomRef
	UserID string `json:"userId"`
}

type leavePayload struct {
	roomRef
}

type codeChangePayload struct {
	roomRef
	Code           string          `json:"code"`
	CursorPosition json.RawMessage `json:"cursorPosition"`
}

type executeCodePayload struct {
	roomRef
	Code string `json:"code"`
}

type executionResultPayload struct {
	roomRef
	Output        string  `json:"output"`
	Error         string  `json:"error"`
	ExecutionTime float64 `json:"executionTime"`
}

type languageChangePayload struct {
	roomRef
	Language string  `json:"language"`
	Code     *string `json:"code"`
}

type cursorMovePayload struct {
	roomRef
	Position json.RawMessage `json:"position"`
}

type typingPayload struct {
	roomRef
	IsTyping bool `json:"isTyping"`
}

type errorData struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type participantsData struct {
	Participants int    `json:"participants"`
	Action       string `json:"action"`
	UserID       string `json:"userId,omitempty"`
}

type sessionJoinedData struct {
	SessionID        string      `json:"sessionId"`
	CurrentCode      string      `json:"currentCode"`
	Language         string      `json:"language"`
	Participants     int         `json:"participants"`
	ExecutionResults interface{} `json:"executionResults"`
}

type codeUpdateData struct {
	Code           string          `json:"code"`
	UserID         string          `json:"userId"`
	CursorPosition json.RawMessage `json:"cursorPosition,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

type executionStartedData struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type executionResultData struct {
	Output        string    `json:"output"`
	Error         string    `json:"error"`
	ExecutionTime float64   `json:"executionTime"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
}

type languageChangedData struct {
	Language  string    `json:"language"`
	Code      *string   `json:"code,omitempty"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type cursorUpdateData struct {
	UserID   string          `json:"userId"`
	Position json.RawMessage `json:"position"`
	SocketID string          `json:"socketId"`
}

type userTypingData struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}
