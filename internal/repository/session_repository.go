package repository

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if session.ExecutionResults == nil {
		session.ExecutionResults = []model.ExecutionResult{}
	}
	if session.Metadata == nil {
		session.Metadata = map[string]interface{}{}
	}
	return r.DB.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Session{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Get returns util.ErrSessionNotFound when no row matches.
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.DB.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns the newest sessions first.
func (r *SessionRepository) List(ctx context.Context, limit int) ([]model.Session, error) {
	var sessions []model.Session
	err := r.DB.WithContext(ctx).
		Select("id", "language", "code_content", "metadata", "created_at", "updated_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// UpdateCode overwrites the stored code and bumps updated_at.
func (r *SessionRepository) UpdateCode(ctx context.Context, id, code string) (*model.Session, error) {
	return r.update(ctx, id, "code_content", code)
}

func (r *SessionRepository) UpdateLanguage(ctx context.Context, id, language string) (*model.Session, error) {
	return r.update(ctx, id, "language", language)
}

func (r *SessionRepository) update(ctx context.Context, id, column string, value interface{}) (*model.Session, error) {
	res := r.DB.WithContext(ctx).Model(&model.Session{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, util.ErrSessionNotFound
	}
	return r.Get(ctx, id)
}

// AppendExecutionResult adds one entry to the end of the session history in a
// single statement, so concurrent appends never overwrite each other.
func (r *SessionRepository) AppendExecutionResult(ctx context.Context, id string, result model.ExecutionResult) error {
	db := r.DB.WithContext(ctx)

	var expr string
	var arg []byte
	var err error
	switch db.Dialector.Name() {
	case "mysql":
		expr = "JSON_ARRAY_APPEND(COALESCE(execution_results, JSON_ARRAY()), '$', CAST(? AS JSON))"
		arg, err = json.Marshal(result)
	default:
		expr = "(CASE WHEN jsonb_typeof(execution_results) = 'array' THEN execution_results ELSE '[]'::jsonb END) || ?::jsonb"
		arg, err = json.Marshal([]model.ExecutionResult{result})
	}
	if err != nil {
		return err
	}

	res := db.Model(&model.Session{}).Where("id = ?", id).
		Update("execution_results", gorm.Expr(expr, string(arg)))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&model.Session{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrSessionNotFound
	}
	return nil
}
