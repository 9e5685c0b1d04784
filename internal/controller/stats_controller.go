package controller

import (
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
)

type statsService interface {
	Overview(ctx context.Context) (*service.Overview, error)
	HabitStats(ctx context.Context, id uint) (*service.HabitStats, error)
}

type StatsController struct {
	StatsService statsService
}

func NewStatsController(statsService statsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// @Summary Overview across active habits
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats/overview [get]
func (c *StatsController) GetOverview(ctx *gin.Context) {
	overview, err := c.StatsService.Overview(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "Failed to get stats overview")
		return
	}
	util.Success(ctx, overview)
}

// @Summary Statistics of one habit
// @Tags stats
// @Produce json
// @Param id path int true "habit id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /stats/habits/{id} [get]
func (c *StatsController) GetHabitStats(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.StatsService.HabitStats(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, "Failed to get habit stats")
		return
	}
	util.Success(ctx, stats)
}
