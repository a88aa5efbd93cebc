// Package quiz implements the timed multiple-choice quiz state machine and
// its live session transport.
package quiz

import (
	"errors"
	"fmt"
	"math"

	"github.com/cderp/coursesite/internal/catalog"
)

// Engine rejections. None of them change state.
var (
	ErrAlreadyStarted     = errors.New("quiz: already started")
	ErrNotInProgress      = errors.New("quiz: not in progress")
	ErrQuestionOutOfRange = errors.New("quiz: question index out of range")
	ErrOptionOutOfRange   = errors.New("quiz: option index out of range")
)

// Phase is the top-level session state.
type Phase int

// Phases.
const (
	NotStarted Phase = iota
	InProgress
	Completed
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Engine is the quiz session state machine. It is not safe for concurrent
// use; Session adds locking and the countdown.
type Engine struct {
	quiz      catalog.Quiz
	duration  int
	phase     Phase
	current   int
	answers   map[int]int
	remaining int
}

// NewEngine creates an engine in the NotStarted phase.
func NewEngine(q catalog.Quiz) *Engine {
	duration := q.Duration
	if duration <= 0 {
		duration = catalog.DefaultQuizDuration
	}
	return &Engine{
		quiz:      q,
		duration:  duration,
		answers:   make(map[int]int),
		remaining: duration,
	}
}

// Quiz returns the quiz being played.
func (e *Engine) Quiz() *catalog.Quiz { return &e.quiz }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Current returns the current question index.
func (e *Engine) Current() int { return e.current }

// Remaining returns the seconds left on the countdown.
func (e *Engine) Remaining() int { return e.remaining }

// Duration returns the fixed time budget in seconds.
func (e *Engine) Duration() int { return e.duration }

// Total returns the number of questions.
func (e *Engine) Total() int { return len(e.quiz.Questions) }

// Answer returns the recorded option for question q.
func (e *Engine) Answer(q int) (int, bool) {
	opt, ok := e.answers[q]
	return opt, ok
}

// Revealed reports whether question q has a recorded answer.
func (e *Engine) Revealed(q int) bool {
	_, ok := e.answers[q]
	return ok
}

// Start begins the session and arms the countdown at the full duration.
func (e *Engine) Start() error {
	if e.phase != NotStarted {
		return ErrAlreadyStarted
	}
	e.phase = InProgress
	e.remaining = e.duration
	return nil
}

// SelectOption records opt as the answer to question q. It returns false
// without error when q already has an answer; answers are never replaced.
func (e *Engine) SelectOption(q, opt int) (bool, error) {
	if e.phase != InProgress {
		return false, ErrNotInProgress
	}
	if q < 0 || q >= len(e.quiz.Questions) {
		return false, ErrQuestionOutOfRange
	}
	if opt < 0 || opt >= len(e.quiz.Questions[q].Options) {
		return false, ErrOptionOutOfRange
	}
	if _, done := e.answers[q]; done {
		return false, nil
	}
	e.answers[q] = opt
	return true, nil
}

// Advance moves to the next question, or completes the session when the
// current question is the last one.
func (e *Engine) Advance() error {
	if e.phase != InProgress {
		return ErrNotInProgress
	}
	if e.current < len(e.quiz.Questions)-1 {
		e.current++
		return nil
	}
	e.phase = Completed
	return nil
}

// Retreat moves to the previous question, stopping at the first.
func (e *Engine) Retreat() error {
	if e.phase != InProgress {
		return ErrNotInProgress
	}
	if e.current > 0 {
		e.current--
	}
	return nil
}

// JumpTo moves directly to question q.
func (e *Engine) JumpTo(q int) error {
	if e.phase != InProgress {
		return ErrNotInProgress
	}
	if q < 0 || q >= len(e.quiz.Questions) {
		return ErrQuestionOutOfRange
	}
	e.current = q
	return nil
}

// Tick consumes one second of the countdown. Reaching zero completes the
// session regardless of answered questions.
func (e *Engine) Tick() error {
	if e.phase != InProgress {
		return ErrNotInProgress
	}
	if e.remaining <= 1 {
		e.remaining = 0
		e.phase = Completed
		return nil
	}
	e.remaining--
	return nil
}

// Retry discards all progress and returns to NotStarted.
func (e *Engine) Retry() {
	e.phase = NotStarted
	e.current = 0
	e.answers = make(map[int]int)
	e.remaining = e.duration
}

// Score tallies the recorded answers.
func (e *Engine) Score() Score {
	s := Score{Total: len(e.quiz.Questions)}
	for i, q := range e.quiz.Questions {
		opt, ok := e.answers[i]
		switch {
		case !ok:
			s.Unanswered++
		case opt == q.Correct:
			s.Correct++
		default:
			s.Incorrect++
		}
	}
	if s.Total > 0 {
		s.Percentage = int(math.Round(100 * float64(s.Correct) / float64(s.Total)))
	}
	s.TimeTaken = e.duration - e.remaining
	return s
}
