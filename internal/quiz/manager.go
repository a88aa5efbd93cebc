package quiz

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

type liveSession struct {
	conn    *websocket.Conn
	session *Session
}

// SessionManager tracks live quiz sessions per visitor and browser tab.
type SessionManager struct {
	mu     sync.RWMutex
	active map[string]map[string]liveSession
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		active: make(map[string]map[string]liveSession),
	}
}

// GetActive returns the live quiz session for a visitor and tab.
func (m *SessionManager) GetActive(visitorID, tabID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tabs, ok := m.active[visitorID]; ok {
		return tabs[tabID].session
	}
	return nil
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, tabs := range m.active {
		n += len(tabs)
	}
	return n
}

// Register adds a live session. A session already registered for the same
// tab is stopped and its connection closed.
func (m *SessionManager) Register(visitorID, tabID string, conn *websocket.Conn, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[visitorID]; !exists {
		m.active[visitorID] = make(map[string]liveSession)
	}

	if existing, exists := m.active[visitorID][tabID]; exists && existing.session != s {
		existing.session.Close()
		if existing.conn != nil {
			_ = existing.conn.Close(websocket.StatusNormalClosure, "session replaced")
		}
	}

	m.active[visitorID][tabID] = liveSession{conn: conn, session: s}
	slog.Info("Quiz session registered", "visitor_id", visitorID, "tab_id", tabID, "quiz_id", s.QuizID(), "session_id", s.ID())
}

// Unregister removes a live session if it is still the registered one.
func (m *SessionManager) Unregister(visitorID, tabID string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tabs, ok := m.active[visitorID]; ok {
		if current, exists := tabs[tabID]; exists && current.session == s {
			delete(tabs, tabID)
			if len(tabs) == 0 {
				delete(m.active, visitorID)
			}
			slog.Info("Quiz session unregistered", "visitor_id", visitorID, "tab_id", tabID, "session_id", s.ID())
		}
	}
}

// CloseVisitor stops every live session of a visitor.
func (m *SessionManager) CloseVisitor(visitorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tabs, ok := m.active[visitorID]
	if !ok {
		return
	}

	for tabID, live := range tabs {
		live.session.Close()
		if live.conn != nil {
			_ = live.conn.Close(websocket.StatusNormalClosure, "session closed")
		}
		slog.Info("Quiz session closed", "visitor_id", visitorID, "tab_id", tabID)
	}
	delete(m.active, visitorID)
}

// CloseAll stops every live session. Used on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	visitors := make([]string, 0, len(m.active))
	for id := range m.active {
		visitors = append(visitors, id)
	}
	m.mu.Unlock()

	for _, id := range visitors {
		m.CloseVisitor(id)
	}
}
