package controller

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func habitRouter(svc *MockHabitService) *gin.Engine {
	c := NewHabitController(svc)
	r := gin.New()
	api := r.Group("/api")
	api.GET("/habits", c.ListHabits)
	api.POST("/habits", c.CreateHabit)
	api.GET("/habits/:id", c.GetHabit)
	api.PUT("/habits/:id", c.UpdateHabit)
	api.DELETE("/habits/:id", c.DeleteHabit)
	return r
}

func TestHabitController_CreateValidation(t *testing.T) {
	svc := new(MockHabitService)
	r := habitRouter(svc)

	cases := map[string]string{
		`{}`:                                     "name is required",
		`{"name":"   "}`:                         "name cannot be empty",
		`{"name":"Read","color":"red"}`:          "color must be a hex color like #6366f1",
		`{"name":"Read","frequency":"hourly"}`:   "frequency must be one of: daily weekdays weekends custom",
		`{"name":"Read","targetDays":[1,7]}`:     util.ErrInvalidTargetDays.Error(),
		`{"name":"Read","icon":"not-an-icon"}`:   "icon must be one of: " + iconList(),
		`{"name":"Read","description":` + "123}": "invalid request body",
	}
	for body, want := range cases {
		w, resp := perform(t, r, http.MethodPost, "/api/habits", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, want, resp.Error, body)
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func iconList() string {
	out := ""
	for i, icon := range util.HabitIcons {
		if i > 0 {
			out += " "
		}
		out += icon
	}
	return out
}

func TestHabitController_Create(t *testing.T) {
	svc := new(MockHabitService)
	req := service.CreateHabitRequest{Name: "Read", Frequency: "custom", TargetDays: []int{0, 6}}
	svc.On("Create", mock.Anything, req).Return(&model.Habit{
		BaseModel:  model.BaseModel{ID: 3},
		Name:       "Read",
		Frequency:  "custom",
		TargetDays: []int{0, 6},
		IsActive:   true,
	}, nil)

	w, resp := perform(t, habitRouter(svc), http.MethodPost, "/api/habits", `{"name":"Read","frequency":"custom","targetDays":[0,6]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(3), resp.Data["id"])
	assert.Equal(t, []interface{}{float64(0), float64(6)}, resp.Data["targetDays"])
	assert.Equal(t, true, resp.Data["isActive"])
}

func TestHabitController_List(t *testing.T) {
	svc := new(MockHabitService)
	svc.On("List", mock.Anything, false).Return([]service.HabitView{}, nil)
	svc.On("List", mock.Anything, true).Return([]service.HabitView{{Habit: model.Habit{Name: "Old"}}}, nil)
	r := habitRouter(svc)

	w, _ := perform(t, r, http.MethodGet, "/api/habits", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodGet, "/api/habits?include_inactive=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHabitController_Get(t *testing.T) {
	svc := new(MockHabitService)
	svc.On("Get", mock.Anything, uint(1)).Return(&service.HabitDetail{
		HabitView:     service.HabitView{Habit: model.Habit{BaseModel: model.BaseModel{ID: 1}}, CurrentStreak: 5},
		LongestStreak: 8,
	}, nil)
	svc.On("Get", mock.Anything, uint(2)).Return(nil, util.ErrHabitNotFound)
	r := habitRouter(svc)

	w, resp := perform(t, r, http.MethodGet, "/api/habits/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), resp.Data["currentStreak"])
	assert.Equal(t, float64(8), resp.Data["longestStreak"])

	w, resp = perform(t, r, http.MethodGet, "/api/habits/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "habit not found", resp.Error)

	w, resp = perform(t, r, http.MethodGet, "/api/habits/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid habit id", resp.Error)
}

func TestHabitController_Update(t *testing.T) {
	svc := new(MockHabitService)
	svc.On("Update", mock.Anything, uint(1), mock.MatchedBy(func(req service.UpdateHabitRequest) bool {
		return req.Name != nil && *req.Name == "Walk" && req.Color == nil && req.TargetDays == nil
	})).Return(&model.Habit{Name: "Walk"}, nil)
	svc.On("Update", mock.Anything, uint(1), mock.MatchedBy(func(req service.UpdateHabitRequest) bool {
		return req.TargetDays != nil && len(req.TargetDays) == 0
	})).Return(nil, util.ErrInvalidTargetDays)
	r := habitRouter(svc)

	w, resp := perform(t, r, http.MethodPut, "/api/habits/1", `{"name":"Walk"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Walk", resp.Data["name"])

	w, resp = perform(t, r, http.MethodPut, "/api/habits/1", `{"targetDays":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.ErrInvalidTargetDays.Error(), resp.Error)

	w, _ = perform(t, r, http.MethodPut, "/api/habits/1", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHabitController_UpdateEmptyBody(t *testing.T) {
	svc := new(MockHabitService)
	svc.On("Update", mock.Anything, uint(1), service.UpdateHabitRequest{}).
		Return(&model.Habit{Name: "Read"}, nil)
	r := habitRouter(svc)

	w, resp := perform(t, r, http.MethodPut, "/api/habits/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Read", resp.Data["name"])
	svc.AssertExpectations(t)

	w, _ = perform(t, r, http.MethodPut, "/api/habits/1", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHabitController_Delete(t *testing.T) {
	svc := new(MockHabitService)
	svc.On("Delete", mock.Anything, uint(1), false).Return(nil)
	svc.On("Delete", mock.Anything, uint(1), true).Return(nil)
	svc.On("Delete", mock.Anything, uint(9), false).Return(util.ErrHabitNotFound)
	r := habitRouter(svc)

	w, resp := perform(t, r, http.MethodDelete, "/api/habits/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Habit archived", resp.Message)

	w, resp = perform(t, r, http.MethodDelete, "/api/habits/1?permanent=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Habit permanently deleted", resp.Message)

	w, _ = perform(t, r, http.MethodDelete, "/api/habits/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}
