package controller

import (
	"codehabit_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidHabitID = errors.New("invalid habit id")
	errCodeNotString  = errors.New("code must be a string")
)

// respondError maps service errors onto HTTP statuses; anything unknown is a 500.
func respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrHabitNotFound),
		errors.Is(err, util.ErrCompletionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidDate),
		errors.Is(err, util.ErrInvalidMonth),
		errors.Is(err, util.ErrInvalidTargetDays),
		errors.Is(err, util.ErrInvalidLanguage),
		errors.Is(err, util.ErrBlankName):
		util.BadRequest(ctx, err.Error())
	default:
		util.InternalError(ctx, message, err)
	}
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(param))
	if id == 0 {
		util.BadRequest(ctx, errInvalidHabitID.Error())
		return 0, false
	}
	return id, true
}
