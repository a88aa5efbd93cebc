package quiz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/identity"
	"github.com/cderp/coursesite/internal/store"
)

type fakeAttempts struct {
	mu    sync.Mutex
	saved []*store.Attempt
}

func (f *fakeAttempts) SaveAttempt(_ context.Context, a *store.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeAttempts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func newQuizServer(t *testing.T, attempts AttemptRecorder) (*httptest.Server, *SessionManager) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	sm := NewSessionManager()
	r := chi.NewRouter()
	r.Use(identity.Middleware(false))
	r.Handle("/ws/quiz/{topic}", NewWebSocketHandler(cat, attempts, sm, []string{"*"}, time.Hour))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sm
}

type inbound struct {
	Type      string        `json:"type"`
	Phase     string        `json:"phase"`
	Current   int           `json:"current"`
	Remaining int           `json:"remaining"`
	Revealed  bool          `json:"revealed"`
	Answered  []bool        `json:"answered"`
	Question  *QuestionView `json:"currentQuestion"`
	Error     string        `json:"error"`
	Score     *Score        `json:"score"`
}

func dialQuiz(t *testing.T, srv *httptest.Server, topic string) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/quiz/" + topic
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
		t.Fatalf("Write %s: %v", msg, err)
	}
}

func recv(t *testing.T, ctx context.Context, conn *websocket.Conn) inbound {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func TestWebSocketPlaysQuiz(t *testing.T) {
	attempts := &fakeAttempts{}
	srv, _ := newQuizServer(t, attempts)
	conn, ctx := dialQuiz(t, srv, "python")

	if msg := recv(t, ctx, conn); msg.Type != "state" || msg.Phase != "not_started" {
		t.Fatalf("initial = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"start"}`)
	if msg := recv(t, ctx, conn); msg.Phase != "in_progress" {
		t.Fatalf("after start = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"select","option":2}`)
	if msg := recv(t, ctx, conn); !msg.Revealed {
		t.Fatalf("after select = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"select","option":0}`)
	if msg := recv(t, ctx, conn); !msg.Revealed {
		t.Fatalf("repeat select = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"next"}`)
	if msg := recv(t, ctx, conn); msg.Phase != "completed" || msg.Score == nil {
		t.Fatalf("after next = %+v", msg)
	}
	result := recv(t, ctx, conn)
	if result.Type != "result" || result.Score == nil || result.Score.Correct != 1 || result.Score.Percentage != 100 {
		t.Fatalf("result = %+v", result)
	}

	waitFor(t, 2*time.Second, func() bool { return attempts.count() == 1 }, "attempt persisted")
	if a := attempts.saved[0]; a.QuizID != "python" || a.VisitorID == "" || a.Correct != 1 {
		t.Fatalf("saved attempt = %+v", a)
	}
}

func TestWebSocketReportsRejections(t *testing.T) {
	srv, _ := newQuizServer(t, nil)
	conn, ctx := dialQuiz(t, srv, "sap-fico")
	recv(t, ctx, conn)

	send(t, ctx, conn, `{"type":"next"}`)
	if msg := recv(t, ctx, conn); msg.Type != "error" || msg.Error != ErrNotInProgress.Error() {
		t.Fatalf("next before start = %+v", msg)
	}

	send(t, ctx, conn, `not json`)
	if msg := recv(t, ctx, conn); msg.Type != "error" {
		t.Fatalf("invalid json = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"ping"}`)
	if msg := recv(t, ctx, conn); msg.Type != "pong" {
		t.Fatalf("ping = %+v", msg)
	}
}

func TestWebSocketUnknownTopic(t *testing.T) {
	srv, sm := newQuizServer(t, nil)

	resp, err := http.Get(srv.URL + "/ws/quiz/sap-basics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") || strings.TrimSpace(string(body)) != "quiz not found" {
		t.Fatalf("content type = %q body = %q", ct, body)
	}
	if sm.Count() != 0 {
		t.Fatalf("sessions = %d", sm.Count())
	}
}

func TestWebSocketJumpAndRetry(t *testing.T) {
	srv, _ := newQuizServer(t, nil)
	conn, ctx := dialQuiz(t, srv, "sap-fico")
	recv(t, ctx, conn)

	send(t, ctx, conn, `{"type":"start"}`)
	recv(t, ctx, conn)

	send(t, ctx, conn, `{"type":"jump","question":2}`)
	if msg := recv(t, ctx, conn); msg.Current != 2 || msg.Question == nil || msg.Question.Index != 2 {
		t.Fatalf("after jump = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"select","option":1}`)
	msg := recv(t, ctx, conn)
	if !msg.Revealed || msg.Question.Explanation == "" || len(msg.Answered) != 3 || !msg.Answered[2] || msg.Answered[0] {
		t.Fatalf("after select = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"next"}`)
	if msg := recv(t, ctx, conn); msg.Phase != "completed" {
		t.Fatalf("after next = %+v", msg)
	}
	if msg := recv(t, ctx, conn); msg.Type != "result" {
		t.Fatalf("result = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"retry"}`)
	msg = recv(t, ctx, conn)
	if msg.Type != "state" || msg.Phase != "not_started" || msg.Remaining != 300 || msg.Question != nil {
		t.Fatalf("after retry = %+v", msg)
	}

	send(t, ctx, conn, `{"type":"start"}`)
	if msg := recv(t, ctx, conn); msg.Phase != "in_progress" || msg.Current != 0 || msg.Answered[2] {
		t.Fatalf("restart = %+v", msg)
	}
}
