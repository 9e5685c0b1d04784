package controller

import (
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
)

type completionService interface {
	Mark(ctx context.Context, req service.CompletionRequest) (*service.CompletionView, error)
	Unmark(ctx context.Context, req service.CompletionRequest) error
	List(ctx context.Context, habitID uint, q service.CompletionQuery) (*service.CompletionList, error)
}

type CompletionController struct {
	CompletionService completionService
}

func NewCompletionController(completionService completionService) *CompletionController {
	return &CompletionController{CompletionService: completionService}
}

// @Summary Mark habit completed
// @Description Idempotent: marking the same day again returns the existing completion
// @Tags completions
// @Accept json
// @Produce json
// @Param completion body service.CompletionRequest true "habit and date"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /completions [post]
func (c *CompletionController) CreateCompletion(ctx *gin.Context) {
	var req service.CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	completion, err := c.CompletionService.Mark(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to create completion")
		return
	}
	util.Created(ctx, completion)
}

// @Summary Unmark habit completion
// @Tags completions
// @Accept json
// @Produce json
// @Param completion body service.CompletionRequest true "habit and date"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /completions [delete]
func (c *CompletionController) DeleteCompletion(ctx *gin.Context) {
	var req service.CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	if err := c.CompletionService.Unmark(ctx.Request.Context(), req); err != nil {
		respondError(ctx, err, "Failed to delete completion")
		return
	}
	util.Message(ctx, "Completion removed")
}

// @Summary Completion dates of a habit
// @Tags completions
// @Produce json
// @Param habitId path int true "habit id"
// @Param month query string false "YYYY-MM, wins over startDate/endDate"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /completions/{habitId} [get]
func (c *CompletionController) ListCompletions(ctx *gin.Context) {
	habitID, ok := parseID(ctx, "habitId")
	if !ok {
		return
	}

	var q service.CompletionQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	list, err := c.CompletionService.List(ctx.Request.Context(), habitID, q)
	if err != nil {
		respondError(ctx, err, "Failed to get completions")
		return
	}
	util.Success(ctx, list)
}
