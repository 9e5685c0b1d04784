package collab

import (
	"codehabit_backend/pkg/logger"
	"codehabit_backend/pkg/monitoring"
	"codehabit_backend/pkg/tracing"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CodeWriter persists the code of one session.
type CodeWriter func(ctx context.Context, sessionID, code string) error

const writeTimeout = 10 * time.Second

// Debouncer coalesces code edits per session into a single write issued after a
// quiet period. Each session has at most one pending write, and writes of one
// session run one at a time in generation order.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	write   CodeWriter
	pending map[string]*pendingWrite
	writers map[string]*sessionWriter
	gen     uint64
}

type pendingWrite struct {
	code  string
	gen   uint64
	timer *time.Timer
}

// sessionWriter serializes the writes of one session. It lives while at least one
// write holds a reference to it.
type sessionWriter struct {
	mu      sync.Mutex
	written uint64
	refs    int
	// newest code handed to a write that has not finished yet
	code string
	gen  uint64
}

func NewDebouncer(delay time.Duration, write CodeWriter) *Debouncer {
	return &Debouncer{
		delay:   delay,
		write:   write,
		pending: make(map[string]*pendingWrite),
		writers: make(map[string]*sessionWriter),
	}
}

// Schedule replaces any pending write for sessionID with code and restarts the quiet period.
func (d *Debouncer) Schedule(sessionID, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[sessionID]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[sessionID] = &pendingWrite{
		code:  code,
		gen:   gen,
		timer: time.AfterFunc(d.delay, func() { d.fire(sessionID, gen) }),
	}
}

// Cancel drops the pending write for sessionID without writing it.
func (d *Debouncer) Cancel(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[sessionID]; ok {
		p.timer.Stop()
		delete(d.pending, sessionID)
	}
}

func (d *Debouncer) Pending(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[sessionID]
	return ok
}

// Latest returns the code waiting to be written for sessionID, if any. A write
// already in flight counts as waiting until it returns.
func (d *Debouncer) Latest(sessionID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[sessionID]; ok {
		return p.code, true
	}
	if w, ok := d.writers[sessionID]; ok {
		return w.code, true
	}
	return "", false
}

// Flush writes every pending value now. Used on shutdown.
func (d *Debouncer) Flush(ctx context.Context) {
	type job struct {
		id   string
		code string
		gen  uint64
		w    *sessionWriter
	}

	d.mu.Lock()
	jobs := make([]job, 0, len(d.pending))
	for id, p := range d.pending {
		p.timer.Stop()
		jobs = append(jobs, job{id: id, code: p.code, gen: p.gen, w: d.acquireLocked(id, p)})
	}
	d.pending = make(map[string]*pendingWrite)
	d.mu.Unlock()

	for _, j := range jobs {
		d.writeInOrder(ctx, j.id, j.code, j.gen, j.w)
	}
	if len(jobs) > 0 {
		logger.Log.Info("Flushed pending session writes", zap.Int("count", len(jobs)))
	}
}

func (d *Debouncer) fire(sessionID string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[sessionID]
	// a timer that lost the race against Schedule or Cancel must not write
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, sessionID)
	w := d.acquireLocked(sessionID, p)
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	d.writeInOrder(ctx, sessionID, p.code, gen, w)
}

// acquireLocked takes a reference on the writer of sessionID. d.mu must be held.
func (d *Debouncer) acquireLocked(sessionID string, p *pendingWrite) *sessionWriter {
	w, ok := d.writers[sessionID]
	if !ok {
		w = &sessionWriter{}
		d.writers[sessionID] = w
	}
	w.refs++
	if p.gen > w.gen {
		w.code, w.gen = p.code, p.gen
	}
	return w
}

// writeInOrder persists code unless a newer generation of the same session was
// already written.
func (d *Debouncer) writeInOrder(ctx context.Context, sessionID, code string, gen uint64, w *sessionWriter) {
	w.mu.Lock()
	if gen > w.written {
		d.persist(ctx, sessionID, code)
		w.written = gen
	} else {
		logger.Log.Debug("Dropped superseded session write", zap.String("sessionId", sessionID))
	}
	w.mu.Unlock()

	d.mu.Lock()
	w.refs--
	if w.refs == 0 {
		delete(d.writers, sessionID)
	}
	d.mu.Unlock()
}

func (d *Debouncer) persist(ctx context.Context, sessionID, code string) {
	ctx, end := tracing.Start(ctx, "collab.save_code", tracing.SessionIDKey.String(sessionID))
	err := d.write(ctx, sessionID, code)
	end(err)
	if err != nil {
		monitoring.CollabPersistCounter.WithLabelValues("code", "error").Inc()
		logger.Log.Error("Failed to save session code", zap.String("sessionId", sessionID), zap.Error(err))
		return
	}
	monitoring.CollabPersistCounter.WithLabelValues("code", "ok").Inc()
	logger.Log.Debug("Session code saved", zap.String("sessionId", sessionID))
}
