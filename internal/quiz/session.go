package quiz

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cderp/coursesite/internal/catalog"
)

// DefaultTick is the countdown period.
const DefaultTick = time.Second

// Option configures a Session.
type Option func(*Session)

// WithTick sets the countdown period. Tests use short periods.
func WithTick(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithOnChange registers a callback for every state change, including ticks.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithOnComplete registers a callback for the transition into Completed.
func WithOnComplete(fn func(Snapshot, Score)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// Session runs an Engine with a cancellable countdown. Callbacks are invoked
// with the session lock held, in state order, and must not call back into
// the Session.
type Session struct {
	id   string
	tick time.Duration

	mu         sync.Mutex
	engine     *Engine
	stopTicker context.CancelFunc
	closed     bool

	onChange   func(Snapshot)
	onComplete func(Snapshot, Score)
}

// NewSession creates a session in the NotStarted phase.
func NewSession(q catalog.Quiz, opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		tick:   DefaultTick,
		engine: NewEngine(q),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// QuizID returns the quiz being played.
func (s *Session) QuizID() string { return s.engine.Quiz().ID }

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Start begins the quiz and the countdown.
func (s *Session) Start() error {
	return s.apply("start", func(e *Engine) error { return e.Start() })
}

// Select records an answer for question q.
func (s *Session) Select(q, opt int) error {
	return s.apply("select", func(e *Engine) error {
		_, err := e.SelectOption(q, opt)
		return err
	})
}

// Next advances, completing the quiz after the last question.
func (s *Session) Next() error {
	return s.apply("next", func(e *Engine) error { return e.Advance() })
}

// Prev moves back one question.
func (s *Session) Prev() error {
	return s.apply("prev", func(e *Engine) error { return e.Retreat() })
}

// Jump moves to question q.
func (s *Session) Jump(q int) error {
	return s.apply("jump", func(e *Engine) error { return e.JumpTo(q) })
}

// Retry resets the session to NotStarted.
func (s *Session) Retry() error {
	return s.apply("retry", func(e *Engine) error {
		e.Retry()
		return nil
	})
}

// Close stops the countdown. Later calls are rejected with ErrNotInProgress.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTickerLocked()
}

func (s *Session) apply(op string, fn func(*Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNotInProgress
	}
	before := s.engine.Phase()
	if err := fn(s.engine); err != nil {
		slog.Debug("Quiz transition rejected", "session_id", s.id, "op", op, "error", err)
		return err
	}
	s.afterLocked(before)
	return nil
}

// afterLocked keeps the ticker in step with the phase and emits callbacks.
func (s *Session) afterLocked(before Phase) {
	after := s.engine.Phase()
	if after != InProgress {
		s.stopTickerLocked()
	} else if before != InProgress {
		s.startTickerLocked()
	}

	snap := s.engine.Snapshot()
	if s.onChange != nil {
		s.onChange(snap)
	}
	if before != Completed && after == Completed && s.onComplete != nil {
		s.onComplete(snap, *snap.Score)
	}
}

func (s *Session) startTickerLocked() {
	s.stopTickerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTicker = cancel
	go s.runTicker(ctx)
}

func (s *Session) stopTickerLocked() {
	if s.stopTicker != nil {
		s.stopTicker()
		s.stopTicker = nil
	}
}

func (s *Session) runTicker(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			// Cancellation happens under the lock, so a stale ticker can
			// never touch a session that has moved on.
			if ctx.Err() != nil {
				s.mu.Unlock()
				return
			}
			before := s.engine.Phase()
			if err := s.engine.Tick(); err == nil {
				s.afterLocked(before)
			}
			s.mu.Unlock()
		}
	}
}

// Ticking reports whether a countdown is armed.
func (s *Session) Ticking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopTicker != nil
}
