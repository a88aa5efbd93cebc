package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/identity"
	"github.com/cderp/coursesite/internal/store"
)

const writeTimeout = 5 * time.Second

var errOptionRequired = errors.New("quiz: option is required")

// AttemptRecorder persists completed attempts.
type AttemptRecorder interface {
	SaveAttempt(ctx context.Context, attempt *store.Attempt) error
}

// WebSocketHandler runs live quiz sessions over a WebSocket.
type WebSocketHandler struct {
	catalog        *catalog.Store
	attempts       AttemptRecorder
	sm             *SessionManager
	allowedOrigins []string
	tick           time.Duration
}

// NewWebSocketHandler creates a new WebSocket handler. attempts may be nil.
func NewWebSocketHandler(cat *catalog.Store, attempts AttemptRecorder, sm *SessionManager, allowedOrigins []string, tick time.Duration) *WebSocketHandler {
	return &WebSocketHandler{
		catalog:        cat,
		attempts:       attempts,
		sm:             sm,
		allowedOrigins: allowedOrigins,
		tick:           tick,
	}
}

// wsMessage is a client command.
type wsMessage struct {
	Type     string `json:"type"`
	Question *int   `json:"question,omitempty"`
	Option   *int   `json:"option,omitempty"`
}

type stateMessage struct {
	Type string `json:"type"`
	Snapshot
}

type resultMessage struct {
	Type     string   `json:"type"`
	QuizID   string   `json:"quizId"`
	Score    Score    `json:"score"`
	Feedback Feedback `json:"feedback"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	visitorID := identity.VisitorIDFromContext(r.Context())
	tabID := identity.SessionIDFromContext(r.Context())

	q := h.catalog.Quiz(topic)
	if q == nil {
		http.Error(w, "quiz not found", http.StatusNotFound)
		return
	}
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "visitor_id", visitorID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "visitor_id", visitorID)
		}
	}()

	session := NewSession(*q,
		WithTick(h.tick),
		WithOnChange(func(snap Snapshot) {
			if err := writeJSON(ws, stateMessage{Type: "state", Snapshot: snap}); err != nil {
				slog.Debug("Failed to push quiz state", "error", err)
			}
		}),
		WithOnComplete(func(snap Snapshot, score Score) {
			h.recordAttempt(visitorID, snap.QuizID, score)
			msg := resultMessage{Type: "result", QuizID: snap.QuizID, Score: score, Feedback: score.Feedback()}
			if err := writeJSON(ws, msg); err != nil {
				slog.Debug("Failed to push quiz result", "error", err)
			}
		}),
	)
	defer session.Close()

	h.sm.Register(visitorID, tabID, ws, session)
	defer h.sm.Unregister(visitorID, tabID, session)

	if err := writeJSON(ws, stateMessage{Type: "state", Snapshot: session.Snapshot()}); err != nil {
		slog.Debug("Failed to send initial quiz state", "error", err)
		return
	}

	h.readLoop(r.Context(), ws, session, visitorID)
	slog.Info("Quiz session ended", "visitor_id", visitorID, "quiz_id", q.ID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, o := range h.allowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, session *Session, visitorID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "visitor_id", visitorID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "visitor_id", visitorID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(ws, "invalid message")
			continue
		}

		var opErr error
		switch msg.Type {
		case "start":
			opErr = session.Start()
		case "select":
			if msg.Option == nil {
				opErr = errOptionRequired
				break
			}
			question := session.Snapshot().Current
			if msg.Question != nil {
				question = *msg.Question
			}
			opErr = session.Select(question, *msg.Option)
		case "next":
			opErr = session.Next()
		case "prev":
			opErr = session.Prev()
		case "jump":
			if msg.Question == nil {
				opErr = ErrQuestionOutOfRange
				break
			}
			opErr = session.Jump(*msg.Question)
		case "retry":
			opErr = session.Retry()
		case "ping":
			if err := writeJSON(ws, map[string]string{"type": "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		default:
			h.sendError(ws, "unknown message type")
			continue
		}
		if opErr != nil {
			h.sendError(ws, opErr.Error())
		}
	}
}

func (h *WebSocketHandler) sendError(ws *websocket.Conn, msg string) {
	if err := writeJSON(ws, errorMessage{Type: "error", Error: msg}); err != nil {
		slog.Debug("Failed to send quiz error", "error", err)
	}
}

// recordAttempt persists asynchronously so the session lock is not held
// across a database write.
func (h *WebSocketHandler) recordAttempt(visitorID, quizID string, score Score) {
	if h.attempts == nil {
		return
	}
	attempt := &store.Attempt{
		ID:               uuid.NewString(),
		VisitorID:        visitorID,
		QuizID:           quizID,
		Correct:          score.Correct,
		Incorrect:        score.Incorrect,
		Unanswered:       score.Unanswered,
		Total:            score.Total,
		Percentage:       score.Percentage,
		TimeTakenSeconds: score.TimeTaken,
		CreatedAt:        time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.attempts.SaveAttempt(ctx, attempt); err != nil {
			slog.Warn("Failed to save quiz attempt", "error", err, "quiz_id", quizID)
		}
	}()
}

func writeJSON(ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
