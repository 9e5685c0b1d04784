package controller

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type sessionService interface {
	Create(ctx context.Context, req service.CreateSessionRequest) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context, limit int) ([]service.SessionSummary, error)
	UpdateCode(ctx context.Context, id, code string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type SessionController struct {
	SessionService sessionService
}

func NewSessionController(sessionService sessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type createdSession struct {
	SessionID   string    `json:"sessionId"`
	CreatedAt   time.Time `json:"createdAt"`
	CodeContent string    `json:"codeContent"`
	Language    string    `json:"language"`
}

type updatedSession struct {
	SessionID string    `json:"sessionId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// @Summary Create session
// @Description Creates an interview session with an optional starting snippet
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body service.CreateSessionRequest false "initial code and language"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req service.CreateSessionRequest
	// an empty body is a valid request
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	session, err := c.SessionService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to create session")
		return
	}

	util.Created(ctx, createdSession{
		SessionID:   session.ID,
		CreatedAt:   session.CreatedAt,
		CodeContent: session.CodeContent,
		Language:    session.Language,
	})
}

// @Summary List sessions
// @Tags sessions
// @Produce json
// @Param limit query int false "max sessions" default(50)
// @Success 200 {object} util.Response
// @Router /sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil || limit <= 0 {
		limit = service.DefaultSessionListLimit
	}

	sessions, err := c.SessionService.List(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err, "Failed to fetch sessions")
		return
	}
	util.Success(ctx, sessions)
}

// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.SessionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "Failed to fetch session")
		return
	}
	util.Success(ctx, session)
}

// @Summary Save session code
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param body body service.UpdateCodeRequest true "code"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /sessions/{id}/code [put]
func (c *SessionController) UpdateCode(ctx *gin.Context) {
	var req service.UpdateCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Code == nil {
		util.BadRequest(ctx, errCodeNotString.Error())
		return
	}

	session, err := c.SessionService.UpdateCode(ctx.Request.Context(), ctx.Param("id"), *req.Code)
	if err != nil {
		respondError(ctx, err, "Failed to update session code")
		return
	}
	util.Success(ctx, updatedSession{SessionID: session.ID, UpdatedAt: session.UpdatedAt})
}

// @Summary Delete session
// @Tags sessions
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /sessions/{id} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	if err := c.SessionService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err, "Failed to delete session")
		return
	}
	util.Message(ctx, "Session deleted successfully")
}
