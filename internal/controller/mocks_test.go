package controller

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := util.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"-"`
	RawData json.RawMessage        `json:"data"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
}

func perform(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if len(resp.RawData) > 0 && resp.RawData[0] == '{' {
		require.NoError(t, json.Unmarshal(resp.RawData, &resp.Data))
	}
	return w, resp
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, req service.CreateSessionRequest) (*model.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) List(ctx context.Context, limit int) ([]service.SessionSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SessionSummary), args.Error(1)
}

func (m *MockSessionService) UpdateCode(ctx context.Context, id, code string) (*model.Session, error) {
	args := m.Called(ctx, id, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockHabitService struct {
	mock.Mock
}

func (m *MockHabitService) Create(ctx context.Context, req service.CreateHabitRequest) (*model.Habit, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Habit), args.Error(1)
}

func (m *MockHabitService) List(ctx context.Context, includeInactive bool) ([]service.HabitView, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.HabitView), args.Error(1)
}

func (m *MockHabitService) Get(ctx context.Context, id uint) (*service.HabitDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HabitDetail), args.Error(1)
}

func (m *MockHabitService) Update(ctx context.Context, id uint, req service.UpdateHabitRequest) (*model.Habit, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Habit), args.Error(1)
}

func (m *MockHabitService) Delete(ctx context.Context, id uint, permanent bool) error {
	return m.Called(ctx, id, permanent).Error(0)
}

type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) Mark(ctx context.Context, req service.CompletionRequest) (*service.CompletionView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompletionView), args.Error(1)
}

func (m *MockCompletionService) Unmark(ctx context.Context, req service.CompletionRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockCompletionService) List(ctx context.Context, habitID uint, q service.CompletionQuery) (*service.CompletionList, error) {
	args := m.Called(ctx, habitID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompletionList), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Overview(ctx context.Context) (*service.Overview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Overview), args.Error(1)
}

func (m *MockStatsService) HabitStats(ctx context.Context, id uint) (*service.HabitStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HabitStats), args.Error(1)
}
