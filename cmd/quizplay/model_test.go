package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/quiz"
)

func testQuiz(t *testing.T, id string) *catalog.Quiz {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	q := cat.Quiz(id)
	if q == nil {
		t.Fatalf("quiz %q missing", id)
	}
	return q
}

func press(t *testing.T, m model, keys ...string) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func send(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestModelPlaysQuiz(t *testing.T) {
	m := newQuizModel(testQuiz(t, "python"), time.Second, true)
	if !strings.Contains(m.View(), "Press enter to start") {
		t.Fatalf("start view = %q", m.View())
	}

	m, cmd := press(t, m, "enter")
	if m.engine.Phase() != quiz.InProgress || cmd == nil {
		t.Fatalf("phase = %v cmd = %v", m.engine.Phase(), cmd)
	}

	m, _ = press(t, m, "3")
	if !strings.Contains(m.View(), "✓") {
		t.Fatalf("answer not revealed: %q", m.View())
	}

	m, _ = press(t, m, "1")
	if got, _ := m.engine.Answer(0); got != 2 {
		t.Fatalf("answer changed to %d", got)
	}

	m, _ = press(t, m, "n")
	if m.engine.Phase() != quiz.Completed {
		t.Fatalf("phase = %v", m.engine.Phase())
	}
	if view := m.View(); !strings.Contains(view, "100%") || !strings.Contains(view, "Correct: 1") {
		t.Fatalf("result view = %q", view)
	}
}

func TestModelRejectsOutOfRangeOption(t *testing.T) {
	m := newQuizModel(testQuiz(t, "python"), time.Second, true)
	m, _ = press(t, m, "enter", "6")
	if m.status == "" {
		t.Fatal("expected an error status")
	}
	if _, ok := m.engine.Answer(0); ok {
		t.Fatal("out of range option recorded")
	}
}

func TestModelTicks(t *testing.T) {
	m := newQuizModel(testQuiz(t, "sap-fico"), time.Second, true)
	m, _ = press(t, m, "enter")

	m, cmd := send(m, tickMsg{gen: m.gen})
	if m.engine.Remaining() != 299 || cmd == nil {
		t.Fatalf("remaining = %d cmd = %v", m.engine.Remaining(), cmd)
	}

	m, cmd = send(m, tickMsg{gen: m.gen - 1})
	if m.engine.Remaining() != 299 || cmd != nil {
		t.Fatalf("stale tick applied: remaining = %d", m.engine.Remaining())
	}

	for m.engine.Phase() == quiz.InProgress {
		m, cmd = send(m, tickMsg{gen: m.gen})
	}
	if cmd != nil {
		t.Fatal("tick rescheduled after completion")
	}
	if view := m.View(); !strings.Contains(view, "Unanswered: 3") || !strings.Contains(view, "0%") {
		t.Fatalf("timeout view = %q", view)
	}
}

func TestModelRetryIgnoresOldTicks(t *testing.T) {
	m := newQuizModel(testQuiz(t, "sap-fico"), time.Second, true)
	m, _ = press(t, m, "enter", "n", "n", "n")
	if m.engine.Phase() != quiz.Completed {
		t.Fatalf("phase = %v", m.engine.Phase())
	}
	old := m.gen

	m, _ = press(t, m, "r")
	if m.engine.Phase() != quiz.NotStarted || m.engine.Remaining() != 300 {
		t.Fatalf("after retry phase = %v remaining = %d", m.engine.Phase(), m.engine.Remaining())
	}

	m, _ = press(t, m, "enter")
	m, _ = send(m, tickMsg{gen: old})
	if m.engine.Remaining() != 300 {
		t.Fatalf("old tick applied: remaining = %d", m.engine.Remaining())
	}
}

func TestModelPicker(t *testing.T) {
	quizzes := []*catalog.Quiz{testQuiz(t, "sap-fico"), testQuiz(t, "python")}
	m := newModel(quizzes, time.Second, true)
	if view := m.View(); !strings.Contains(view, "Choose a quiz") {
		t.Fatalf("picker view = %q", view)
	}

	m, _ = press(t, m, "down", "enter")
	if m.screen != screenQuiz || m.engine.Quiz().ID != "python" {
		t.Fatalf("screen = %v", m.screen)
	}

	m, _ = press(t, m, "b")
	if m.screen != screenPick {
		t.Fatal("back did not return to the picker")
	}

	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit did not produce tea.QuitMsg")
	}
}

func TestResolveUIMode(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	tests := []struct {
		mode    string
		tty     bool
		live    bool
		warning bool
		err     bool
	}{
		{"auto", true, true, false, false},
		{"", false, false, false, false},
		{"LIVE", true, true, false, false},
		{"live", false, false, true, false},
		{"plain", true, false, false, false},
		{"fancy", true, false, false, true},
	}
	for _, tt := range tests {
		tty := tt.tty
		isTerminal = func(io.Writer) bool { return tty }
		got, err := resolveUIMode(tt.mode, io.Discard)
		if (err != nil) != tt.err {
			t.Errorf("%q: err = %v", tt.mode, err)
			continue
		}
		if got.useLive != tt.live || (got.warning != "") != tt.warning {
			t.Errorf("%q tty=%v: got %+v", tt.mode, tt.tty, got)
		}
	}
}

func TestRunPlain(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-ui", "plain", "-category", "non-sap"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d stderr = %s", code, stderr.String())
	}
	if out := stdout.String(); !strings.Contains(out, "python") || strings.Contains(out, "sap-fico") {
		t.Fatalf("listing = %q", out)
	}

	stdout.Reset()
	if code := run([]string{"-ui", "plain", "-topic", "sap-basics"}, &stdout, &stderr); code != 1 {
		t.Fatalf("unknown topic exit = %d", code)
	}
}
