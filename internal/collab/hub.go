// Package collab fans realtime editing events out to the participants of an
// interview session and persists code edits in the background.
package collab

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"codehabit_backend/pkg/logger"
	"codehabit_backend/pkg/monitoring"
	"codehabit_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionStore is the persistence the hub needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	UpdateCode(ctx context.Context, id, code string) (*model.Session, error)
	UpdateLanguage(ctx context.Context, id, language string) (*model.Session, error)
	AppendExecutionResult(ctx context.Context, id string, result model.ExecutionResult) error
}

type handler func(c *Client, data json.RawMessage)

type inbound struct {
	client *Client
	msg    Message
}

// Hub runs a single event loop that owns the registry and all client bookkeeping.
// Store access happens on separate goroutines; results that touch the registry are
// posted back to the loop.
type Hub struct {
	store     SessionStore
	registry  *Registry
	debouncer *Debouncer
	handlers  map[string]handler
	clients   map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	tasks      chan func()
	statsReq   chan chan RegistryStats

	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	storeTimeout time.Duration
	now          func() time.Time
}

func NewHub(store SessionStore, saveDebounce time.Duration) *Hub {
	h := &Hub{
		store:        store,
		registry:     NewRegistry(),
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inbound, 256),
		tasks:        make(chan func(), 64),
		statsReq:     make(chan chan RegistryStats),
		quit:         make(chan struct{}),
		stopped:      make(chan struct{}),
		storeTimeout: 5 * time.Second,
		now:          time.Now,
	}
	h.debouncer = NewDebouncer(saveDebounce, func(ctx context.Context, id, code string) error {
		_, err := store.UpdateCode(ctx, id, code)
		return err
	})
	h.handlers = map[string]handler{
		EventJoinSession:     h.handleJoin,
		EventLeaveSession:    h.handleLeave,
		EventCodeChange:      h.handleCodeChange,
		EventExecuteCode:     h.handleExecuteCode,
		EventExecutionResult: h.handleExecutionResult,
		EventLanguageChange:  h.handleLanguageChange,
		EventCursorMove:      h.handleCursorMove,
		EventTyping:          h.handleTyping,
	}
	return h
}

func (h *Hub) Debouncer() *Debouncer {
	return h.debouncer
}

// Run processes events until ctx is cancelled or Stop is called.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.quit:
			return

		case c := <-h.register:
			h.clients[c.ID] = c
			monitoring.CollabConnections.Set(float64(len(h.clients)))
			logger.Log.Debug("Collab client connected", zap.String("connId", c.ID))

		case c := <-h.unregister:
			h.disconnect(c)

		case in := <-h.inbound:
			h.dispatch(in.client, in.msg)

		case task := <-h.tasks:
			task()

		case reply := <-h.statsReq:
			reply <- h.registry.Stats()
		}
	}
}

// Stop ends the event loop, closes every connection and writes pending code.
func (h *Hub) Stop(ctx context.Context) {
	h.stopOnce.Do(func() { close(h.quit) })
	select {
	case <-h.stopped:
	case <-ctx.Done():
	}
	h.debouncer.Flush(ctx)
}

// Stats asks the event loop for a registry snapshot.
func (h *Hub) Stats(ctx context.Context) (RegistryStats, error) {
	reply := make(chan RegistryStats, 1)
	select {
	case h.statsReq <- reply:
	case <-ctx.Done():
		return RegistryStats{}, ctx.Err()
	case <-h.stopped:
		return RegistryStats{}, errors.New("collaboration hub stopped")
	}
	select {
	case stats := <-reply:
		return stats, nil
	case <-ctx.Done():
		return RegistryStats{}, ctx.Err()
	}
}

func (h *Hub) closeAll() {
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
	}
	monitoring.CollabConnections.Set(0)
	monitoring.CollabRooms.Set(0)
	logger.Log.Info("Collaboration hub stopped")
}

// post hands fn to the event loop. It is dropped once the loop has stopped.
func (h *Hub) post(fn func()) {
	select {
	case h.tasks <- fn:
	case <-h.stopped:
	}
}

func (h *Hub) dispatch(c *Client, msg Message) {
	if h.clients[c.ID] != c {
		return
	}
	if msg.Type == "" {
		monitoring.CollabEventCounter.WithLabelValues("invalid", "in").Inc()
		h.sendError(c, "Invalid payload", CodeInvalidPayload)
		return
	}
	monitoring.CollabEventCounter.WithLabelValues(msg.Type, "in").Inc()

	handle, ok := h.handlers[msg.Type]
	if !ok {
		h.sendError(c, "Unknown event: "+msg.Type, CodeUnknownEvent)
		return
	}
	handle(c, msg.Data)
}

func (h *Hub) disconnect(c *Client) {
	if h.clients[c.ID] != c {
		return
	}
	userID, _ := h.registry.UserID(c.ID)
	delete(h.clients, c.ID)
	close(c.Send)

	for _, room := range h.registry.Leave(c.ID) {
		h.roomLeft(room, userID)
	}
	monitoring.CollabConnections.Set(float64(len(h.clients)))
	monitoring.CollabRooms.Set(float64(h.registry.RoomCount()))
	logger.Log.Debug("Collab client disconnected", zap.String("connId", c.ID))
}

func (h *Hub) roomLeft(room, userID string) {
	remaining := h.registry.ParticipantCount(room)
	if remaining == 0 {
		h.debouncer.Cancel(room)
		return
	}
	h.broadcast(room, nil, EventParticipantsChanged, participantsData{
		Participants: remaining,
		Action:       "left",
		UserID:       userID,
	})
}

// decode parses a payload and requires a session id.
func (h *Hub) decode(c *Client, data json.RawMessage, v roomed) bool {
	if len(data) == 0 || json.Unmarshal(data, v) != nil || v.room() == "" {
		h.sendError(c, "Invalid payload", CodeInvalidPayload)
		return false
	}
	return true
}

func (h *Hub) userOf(c *Client) string {
	id, _ := h.registry.UserID(c.ID)
	return id
}

func (h *Hub) handleJoin(c *Client, data json.RawMessage) {
	var p joinPayload
	if !h.decode(c, data, &p) {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.storeTimeout)
		defer cancel()
		session, err := h.store.Get(ctx, p.SessionID)
		h.post(func() { h.completeJoin(c, p, session, err) })
	}()
}

func (h *Hub) completeJoin(c *Client, p joinPayload, session *model.Session, err error) {
	// the connection may have gone away while the lookup was running
	if h.clients[c.ID] != c {
		return
	}
	if errors.Is(err, util.ErrSessionNotFound) {
		h.sendError(c, "Session not found", CodeSessionNotFound)
		return
	}
	if err != nil {
		logger.Log.Error("Failed to load session for join", zap.String("sessionId", p.SessionID), zap.Error(err))
		h.sendError(c, "Failed to join session", CodeJoinError)
		return
	}

	h.registry.Join(p.SessionID, c.ID, p.UserID)
	monitoring.CollabRooms.Set(float64(h.registry.RoomCount()))
	participants := h.registry.ParticipantCount(p.SessionID)

	code := session.CodeContent
	if pending, ok := h.debouncer.Latest(p.SessionID); ok {
		code = pending
	}
	results := session.ExecutionResults
	if results == nil {
		results = []model.ExecutionResult{}
	}
	h.send(c, EventSessionJoined, sessionJoinedData{
		SessionID:        p.SessionID,
		CurrentCode:      code,
		Language:         session.Language,
		Participants:     participants,
		ExecutionResults: results,
	})
	h.broadcast(p.SessionID, c, EventParticipantsChanged, participantsData{
		Participants: participants,
		Action:       "joined",
		UserID:       p.UserID,
	})
	logger.Log.Info("User joined session",
		zap.String("sessionId", p.SessionID),
		zap.String("userId", p.UserID),
		zap.Int("participants", participants))
}

func (h *Hub) handleLeave(c *Client, data json.RawMessage) {
	var p leavePayload
	if !h.decode(c, data, &p) {
		return
	}
	userID := h.userOf(c)
	if !h.registry.LeaveRoom(p.SessionID, c.ID) {
		return
	}
	h.roomLeft(p.SessionID, userID)
	monitoring.CollabRooms.Set(float64(h.registry.RoomCount()))
}

func (h *Hub) handleCodeChange(c *Client, data json.RawMessage) {
	var p codeChangePayload
	if !h.decode(c, data, &p) {
		return
	}
	h.broadcast(p.SessionID, c, EventCodeUpdate, codeUpdateData{
		Code:           p.Code,
		UserID:         h.userOf(c),
		CursorPosition: p.CursorPosition,
		Timestamp:      h.now(),
	})
	h.debouncer.Schedule(p.SessionID, p.Code)
}

func (h *Hub) handleExecuteCode(c *Client, data json.RawMessage) {
	var p executeCodePayload
	if !h.decode(c, data, &p) {
		return
	}
	h.broadcast(p.SessionID, nil, EventExecutionStarted, executionStartedData{
		UserID:    h.userOf(c),
		Timestamp: h.now(),
	})
}

func (h *Hub) handleExecutionResult(c *Client, data json.RawMessage) {
	var p executionResultPayload
	if !h.decode(c, data, &p) {
		return
	}
	result := model.ExecutionResult{
		Output:        p.Output,
		Error:         p.Error,
		ExecutionTime: p.ExecutionTime,
		UserID:        h.userOf(c),
		Timestamp:     h.now(),
	}
	h.broadcast(p.SessionID, nil, EventExecutionResult, executionResultData(result))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.storeTimeout)
		defer cancel()
		ctx, end := tracing.Start(ctx, "collab.append_execution_result", tracing.SessionIDKey.String(p.SessionID))
		err := h.store.AppendExecutionResult(ctx, p.SessionID, result)
		end(err)
		if err != nil {
			monitoring.CollabPersistCounter.WithLabelValues("execution_result", "error").Inc()
			logger.Log.Error("Failed to save execution result", zap.String("sessionId", p.SessionID), zap.Error(err))
			return
		}
		monitoring.CollabPersistCounter.WithLabelValues("execution_result", "ok").Inc()
	}()
}

func (h *Hub) handleLanguageChange(c *Client, data json.RawMessage) {
	var p languageChangePayload
	if !h.decode(c, data, &p) {
		return
	}
	if !util.IsValidLanguage(p.Language) {
		h.sendError(c, util.ErrInvalidLanguage.Error(), CodeInvalidLanguage)
		return
	}
	h.broadcast(p.SessionID, c, EventLanguageChanged, languageChangedData{
		Language:  p.Language,
		Code:      p.Code,
		UserID:    h.userOf(c),
		Timestamp: h.now(),
	})
	if p.Code != nil {
		h.debouncer.Schedule(p.SessionID, *p.Code)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.storeTimeout)
		defer cancel()
		if _, err := h.store.UpdateLanguage(ctx, p.SessionID, p.Language); err != nil {
			monitoring.CollabPersistCounter.WithLabelValues("language", "error").Inc()
			logger.Log.Error("Failed to save session language", zap.String("sessionId", p.SessionID), zap.Error(err))
			return
		}
		monitoring.CollabPersistCounter.WithLabelValues("language", "ok").Inc()
	}()
}

func (h *Hub) handleCursorMove(c *Client, data json.RawMessage) {
	var p cursorMovePayload
	if !h.decode(c, data, &p) {
		return
	}
	h.broadcast(p.SessionID, c, EventCursorUpdate, cursorUpdateData{
		UserID:   h.userOf(c),
		Position: p.Position,
		SocketID: c.ID,
	})
}

func (h *Hub) handleTyping(c *Client, data json.RawMessage) {
	var p typingPayload
	if !h.decode(c, data, &p) {
		return
	}
	h.broadcast(p.SessionID, c, EventUserTyping, userTypingData{
		UserID:   h.userOf(c),
		IsTyping: p.IsTyping,
	})
}

func encode(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(outMessage{Type: eventType, Data: data})
}

func (h *Hub) send(c *Client, eventType string, data interface{}) {
	payload, err := encode(eventType, data)
	if err != nil {
		logger.Log.Error("Failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}
	c.enqueue(payload)
	monitoring.CollabEventCounter.WithLabelValues(eventType, "out").Inc()
}

func (h *Hub) sendError(c *Client, message, code string) {
	h.send(c, EventError, errorData{Message: message, Code: code})
}

// broadcast sends to every member of room except the given client, which may be nil.
func (h *Hub) broadcast(room string, except *Client, eventType string, data interface{}) {
	payload, err := encode(eventType, data)
	if err != nil {
		logger.Log.Error("Failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}
	for _, id := range h.registry.Members(room) {
		c, ok := h.clients[id]
		if !ok || c == except {
			continue
		}
		c.enqueue(payload)
		monitoring.CollabEventCounter.WithLabelValues(eventType, "out").Inc()
	}
}
