package controller

import (
	"codehabit_backend/internal/collab"
	"codehabit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CollabController struct {
	Hub     *collab.Hub
	Options collab.ClientOptions
}

func NewCollabController(hub *collab.Hub, opts collab.ClientOptions) *CollabController {
	return &CollabController{Hub: hub, Options: opts}
}

// Connect godoc
// @Summary Realtime session channel
// @Description Upgrades to a websocket carrying JSON {type, data} events
// @Tags collab
// @Router /ws [get]
func (c *CollabController) Connect(ctx *gin.Context) {
	collab.ServeWs(c.Hub, ctx.Writer, ctx.Request, c.Options)
}

// @Summary Active rooms and participants
// @Tags collab
// @Produce json
// @Success 200 {object} util.Response
// @Router /collab/stats [get]
func (c *CollabController) Stats(ctx *gin.Context) {
	stats, err := c.Hub.Stats(ctx.Request.Context())
	if err != nil {
		util.InternalError(ctx, "Failed to read collaboration stats", err)
		return
	}
	util.Success(ctx, stats)
}
