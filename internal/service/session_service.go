package service

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultSessionListLimit = 50
	sessionPreviewLength    = 100
)

// SessionStore is the persistence SessionService needs.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context, limit int) ([]model.Session, error)
	UpdateCode(ctx context.Context, id, code string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type SessionService struct {
	Repo SessionStore
}

func NewSessionService(repo SessionStore) *SessionService {
	return &SessionService{Repo: repo}
}

type CreateSessionRequest struct {
	InitialCode *string `json:"initialCode"`
	Language    string  `json:"language" binding:"omitempty,oneof=python javascript"`
}

// UpdateCodeRequest uses a pointer so a missing field can be told apart from an empty string.
type UpdateCodeRequest struct {
	Code *string `json:"code"`
}

type SessionSummary struct {
	SessionID   string            `json:"sessionId"`
	Language    string            `json:"language"`
	CodePreview string            `json:"codePreview"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Create stores a new session under a fresh unique id.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*model.Session, error) {
	id, err := util.GenerateUniqueSessionID(ctx, s.Repo.Exists)
	if err != nil {
		return nil, err
	}

	code := util.DefaultSessionCode
	if req.InitialCode != nil {
		code = *req.InitialCode
	}
	language := req.Language
	if language == "" {
		language = util.LanguagePython
	}

	session := &model.Session{
		ID:          id,
		CodeContent: code,
		Language:    language,
	}
	if err := s.Repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.Repo.Get(ctx, id)
}

func (s *SessionService) List(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = DefaultSessionListLimit
	}
	sessions, err := s.Repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, SessionSummary{
			SessionID:   session.ID,
			Language:    session.Language,
			CodePreview: preview(session.CodeContent, sessionPreviewLength),
			Metadata:    session.Metadata,
			CreatedAt:   session.CreatedAt,
			UpdatedAt:   session.UpdatedAt,
		})
	}
	return summaries, nil
}

func (s *SessionService) UpdateCode(ctx context.Context, id, code string) (*model.Session, error) {
	return s.Repo.UpdateCode(ctx, id, code)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
