package controller

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type habitService interface {
	Create(ctx context.Context, req service.CreateHabitRequest) (*model.Habit, error)
	List(ctx context.Context, includeInactive bool) ([]service.HabitView, error)
	Get(ctx context.Context, id uint) (*service.HabitDetail, error)
	Update(ctx context.Context, id uint, req service.UpdateHabitRequest) (*model.Habit, error)
	Delete(ctx context.Context, id uint, permanent bool) error
}

type HabitController struct {
	HabitService habitService
}

func NewHabitController(habitService habitService) *HabitController {
	return &HabitController{HabitService: habitService}
}

// @Summary List habits
// @Description Habits with today's completion state and current streak
// @Tags habits
// @Produce json
// @Param include_inactive query bool false "include archived habits"
// @Success 200 {object} util.Response
// @Router /habits [get]
func (c *HabitController) ListHabits(ctx *gin.Context) {
	includeInactive := ctx.Query("include_inactive") == "true"

	habits, err := c.HabitService.List(ctx.Request.Context(), includeInactive)
	if err != nil {
		respondError(ctx, err, "Failed to fetch habits")
		return
	}
	util.Success(ctx, habits)
}

// @Summary Create habit
// @Tags habits
// @Accept json
// @Produce json
// @Param habit body service.CreateHabitRequest true "habit"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /habits [post]
func (c *HabitController) CreateHabit(ctx *gin.Context) {
	var req service.CreateHabitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	habit, err := c.HabitService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to create habit")
		return
	}
	util.Created(ctx, habit)
}

// @Summary Get habit
// @Tags habits
// @Produce json
// @Param id path int true "habit id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /habits/{id} [get]
func (c *HabitController) GetHabit(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	habit, err := c.HabitService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, "Failed to fetch habit")
		return
	}
	util.Success(ctx, habit)
}

// @Summary Update habit
// @Description Only the fields present in the body change
// @Tags habits
// @Accept json
// @Produce json
// @Param id path int true "habit id"
// @Param habit body service.UpdateHabitRequest false "fields to change"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /habits/{id} [put]
func (c *HabitController) UpdateHabit(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateHabitRequest
	// no body means nothing to change; the current habit is returned
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	habit, err := c.HabitService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err, "Failed to update habit")
		return
	}
	util.Success(ctx, habit)
}

// @Summary Delete habit
// @Description Archives the habit unless permanent=true
// @Tags habits
// @Produce json
// @Param id path int true "habit id"
// @Param permanent query bool false "delete with completions"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /habits/{id} [delete]
func (c *HabitController) DeleteHabit(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	permanent := ctx.Query("permanent") == "true"

	if err := c.HabitService.Delete(ctx.Request.Context(), id, permanent); err != nil {
		respondError(ctx, err, "Failed to delete habit")
		return
	}
	if permanent {
		util.Message(ctx, "Habit permanently deleted")
		return
	}
	util.Message(ctx, "Habit archived")
}
