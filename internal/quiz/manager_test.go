package quiz

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestSessionManager_Register(t *testing.T) {
	sm := NewSessionManager()
	s := NewSession(testQuiz(1, 60))

	sm.Register("visitor", "tab-1", nil, s)

	if got := sm.GetActive("visitor", "tab-1"); got != s {
		t.Errorf("Expected session %v, got %v", s, got)
	}
}

func TestSessionManager_ReplaceClosesPrevious(t *testing.T) {
	sm := NewSessionManager()
	first := NewSession(testQuiz(1, 60), WithTick(time.Hour))
	second := NewSession(testQuiz(1, 60), WithTick(time.Hour))
	if err := first.Start(); err != nil {
		t.Fatal(err)
	}

	sm.Register("visitor", "tab-1", nil, first)
	sm.Register("visitor", "tab-1", nil, second)

	if first.Ticking() {
		t.Error("replaced session still ticking")
	}
	if sm.GetActive("visitor", "tab-1") != second || sm.Count() != 1 {
		t.Error("replacement not registered")
	}
}

func TestSessionManager_UnregisterStale(t *testing.T) {
	sm := NewSessionManager()
	s1 := NewSession(testQuiz(1, 60))
	s2 := NewSession(testQuiz(1, 60))

	sm.Register("visitor", "tab-1", nil, s1)
	sm.Register("visitor", "tab-2", nil, s2)

	// A stale unregister must not remove a newer session.
	sm.Unregister("visitor", "tab-2", s1)
	if sm.GetActive("visitor", "tab-2") != s2 {
		t.Error("stale unregister removed the live session")
	}

	sm.Unregister("visitor", "tab-1", s1)
	if sm.GetActive("visitor", "tab-1") != nil || sm.Count() != 1 {
		t.Error("unregister did not remove the session")
	}
}

func TestSessionManager_CloseVisitor(t *testing.T) {
	sm := NewSessionManager()
	s := NewSession(testQuiz(1, 60), WithTick(time.Hour))
	_ = s.Start()
	sm.Register("visitor", "tab-1", nil, s)
	sm.Register("other", "tab-1", nil, NewSession(testQuiz(1, 60)))

	sm.CloseVisitor("visitor")

	if s.Ticking() || sm.GetActive("visitor", "tab-1") != nil || sm.Count() != 1 {
		t.Error("CloseVisitor did not stop the visitor's sessions")
	}
	sm.CloseAll()
	if sm.Count() != 0 {
		t.Errorf("Count after CloseAll = %d", sm.Count())
	}
}

func TestSessionManager_ConcurrentAccess(t *testing.T) {
	sm := NewSessionManager()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			sm.Register("visitor", "tab-"+strconv.Itoa(i), nil, NewSession(testQuiz(1, 60)))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			sm.GetActive("visitor", "tab-"+strconv.Itoa(i))
		}
	}()

	wg.Wait()
	if sm.Count() != 200 {
		t.Errorf("Count = %d", sm.Count())
	}
}
