// Package memrefresh keeps the inverted index and session summary fresh as
// transcripts grow, without re-indexing on every single message: a
// per-session debounce/cooldown state machine coalesces bursts of updates
// into one indexer run, serialized per session.
package memrefresh

import (
	"context"
	"sync"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/obslog"
	"go.uber.org/zap"
)

// RunFunc performs one session's indexer pass (incremental index update
// plus session-summary refresh). Errors are logged, not returned to the
// caller that triggered the run.
type RunFunc func(ctx context.Context, sessionID, path string) error

// Config controls debounce/cooldown timing and queue sizing (§4.5).
type Config struct {
	// DebounceInterval is how long OnTranscriptUpdate waits for the burst
	// of writes to settle before scheduling a run. Resets on every call
	// for the same session. Default 5s.
	DebounceInterval time.Duration

	// CooldownInterval is the minimum spacing between two runs of the
	// same session's indexer. Default 30s.
	CooldownInterval time.Duration

	// QueueCapacity bounds the pending-run queue; on overflow the oldest
	// pending entry is dropped. Default 100.
	QueueCapacity int
}

func (c Config) withDefaults() Config {
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = 5 * time.Second
	}
	if c.CooldownInterval <= 0 {
		c.CooldownInterval = 30 * time.Second
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	return c
}

type job struct {
	sessionID string
	path      string
}

// sessionState tracks the debounce timer and cooldown clock for one
// session_id (§4.5's "State per session").
type sessionState struct {
	mu                     sync.Mutex
	runMu                  sync.Mutex // serializes actual runs for this session
	timer                  *time.Timer
	lastRunTime            time.Time
	lastObservedMtime      time.Time
	pendingPath            string
}

// Controller implements the debounce/cooldown state machine described in
// §4.5: Idle -> Debouncing -> Cooling -> Running, per session_id, feeding a
// single bounded queue drained by one worker goroutine — the same
// mutex-guarded start/stop shape as background_scanner.go's BackgroundScanner,
// generalized from one periodic ticker to many independent per-session
// timers.
type Controller struct {
	cfg    Config
	run    RunFunc
	logger *obslog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
	queue    []job

	wake    chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New constructs a Controller. A nil logger uses a no-op logger.
func New(cfg Config, run RunFunc, logger *obslog.Logger) *Controller {
	if logger == nil {
		logger = obslog.FromContext(context.Background())
	}
	return &Controller{
		cfg:      cfg.withDefaults(),
		run:      run,
		logger:   logger,
		sessions: make(map[string]*sessionState),
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the worker goroutine that drains the run queue. Safe to
// call once; a second call is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	go c.workerLoop()
}

// Stop halts the worker goroutine and waits for the in-flight run, if any,
// to finish. Pending debounce timers are cancelled without running.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	for _, s := range c.sessions {
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
	}
	c.mu.Unlock()

	close(c.stopCh)
	<-c.doneCh
}

func (c *Controller) sessionFor(id string) *sessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		s = &sessionState{}
		c.sessions[id] = s
	}
	return s
}

// OnTranscriptUpdate is the trigger API (§4.5). immediate=true bypasses
// debounce/cooldown entirely and runs synchronously on the caller's
// goroutine, still serialized against any other run of the same session.
func (c *Controller) OnTranscriptUpdate(ctx context.Context, sessionID, path string, immediate bool) {
	state := c.sessionFor(sessionID)

	if immediate {
		state.runMu.Lock()
		defer state.runMu.Unlock()
		c.execute(ctx, sessionID, path)
		return
	}

	state.mu.Lock()
	state.pendingPath = path
	if state.timer != nil {
		state.timer.Stop()
	}
	state.timer = time.AfterFunc(c.cfg.DebounceInterval, func() {
		c.debounceElapsed(sessionID)
	})
	state.mu.Unlock()
}

// debounceElapsed fires when a session's debounce window settles. If the
// session is still in cooldown from its last run, it reschedules for the
// remaining time instead of enqueueing (§4.5's Cooling state).
func (c *Controller) debounceElapsed(sessionID string) {
	state := c.sessionFor(sessionID)

	state.mu.Lock()
	path := state.pendingPath
	remaining := c.cfg.CooldownInterval - time.Since(state.lastRunTime)
	if remaining > 0 {
		state.timer = time.AfterFunc(remaining, func() { c.debounceElapsed(sessionID) })
		state.mu.Unlock()
		return
	}
	state.timer = nil
	state.mu.Unlock()

	c.enqueue(job{sessionID: sessionID, path: path})
}

// enqueue appends to the bounded run queue, dropping the oldest pending
// entry on overflow (§4.5).
func (c *Controller) enqueue(j job) {
	c.mu.Lock()
	if len(c.queue) >= c.cfg.QueueCapacity {
		dropped := c.queue[0]
		c.queue = c.queue[1:]
		c.logger.Warn(context.Background(), "refresh queue overflow, dropping oldest pending run",
			zap.String("session_id", dropped.sessionID))
	}
	c.queue = append(c.queue, j)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) workerLoop() {
	defer close(c.doneCh)
	for {
		j, ok := c.dequeue()
		if ok {
			state := c.sessionFor(j.sessionID)
			state.runMu.Lock()
			c.execute(context.Background(), j.sessionID, j.path)
			state.runMu.Unlock()
			continue
		}

		select {
		case <-c.stopCh:
			return
		case <-c.wake:
		}
	}
}

func (c *Controller) dequeue() (job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return job{}, false
	}
	j := c.queue[0]
	c.queue = c.queue[1:]
	return j, true
}

func (c *Controller) execute(ctx context.Context, sessionID, path string) {
	state := c.sessionFor(sessionID)

	if err := c.run(ctx, sessionID, path); err != nil {
		c.logger.Error(ctx, "session refresh failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	state.mu.Lock()
	state.lastRunTime = time.Now()
	state.mu.Unlock()
}
