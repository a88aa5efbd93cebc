package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/quiz"
)

type screen int

const (
	screenPick screen = iota
	screenQuiz
)

// keyMap lists the bindings shown in the help line.
type keyMap struct {
	Choose key.Binding
	Select key.Binding
	Next   key.Binding
	Prev   key.Binding
	Retry  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Choose: key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "start")),
		Select: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "answer")),
		Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next")),
		Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "previous")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Back:   key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("b", "all quizzes")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Select, k.Next, k.Prev, k.Retry, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// tickMsg is one countdown second. gen ties it to the run that scheduled it
// so a retried quiz never receives ticks from the previous run.
type tickMsg struct{ gen int }

// model drives a quiz.Engine from the keyboard.
type model struct {
	quizzes  []*catalog.Quiz
	picker   table.Model
	screen   screen
	engine   *quiz.Engine
	gen      int
	interval time.Duration
	keys     keyMap
	help     help.Model
	status   string
	noColor  bool
}

func newModel(quizzes []*catalog.Quiz, interval time.Duration, noColor bool) model {
	rows := make([]table.Row, 0, len(quizzes))
	for _, q := range quizzes {
		rows = append(rows, table.Row{q.Title, q.Difficulty, strconv.Itoa(len(q.Questions)), quiz.FormatTime(q.Duration)})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Quiz", Width: 28},
			{Title: "Difficulty", Width: 10},
			{Title: "Questions", Width: 9},
			{Title: "Time", Width: 6},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 12)),
	)
	if interval <= 0 {
		interval = time.Second
	}
	return model{
		quizzes:  quizzes,
		picker:   t,
		interval: interval,
		keys:     defaultKeys(),
		help:     help.New(),
		noColor:  noColor,
	}
}

// newQuizModel opens q directly, skipping the picker.
func newQuizModel(q *catalog.Quiz, interval time.Duration, noColor bool) model {
	m := newModel([]*catalog.Quiz{q}, interval, noColor)
	m.engine = quiz.NewEngine(*q)
	m.screen = screenQuiz
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		return m, nil
	case tickMsg:
		if typed.gen != m.gen || m.engine == nil || m.engine.Phase() != quiz.InProgress {
			return m, nil
		}
		if err := m.engine.Tick(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		if m.engine.Phase() == quiz.InProgress {
			return m, m.tick()
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(typed, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenPick {
			return m.updatePicker(typed)
		}
		return m.updateQuiz(typed)
	}
	return m, nil
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Choose) {
		if i := m.picker.Cursor(); i >= 0 && i < len(m.quizzes) {
			m.engine = quiz.NewEngine(*m.quizzes[i])
			m.screen = screenQuiz
			m.status = ""
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	var err error
	switch m.engine.Phase() {
	case quiz.NotStarted:
		switch {
		case key.Matches(msg, m.keys.Choose):
			if err = m.engine.Start(); err == nil {
				m.gen++
				return m, m.tick()
			}
		case key.Matches(msg, m.keys.Back):
			m.screen = screenPick
		}
	case quiz.InProgress:
		switch {
		case key.Matches(msg, m.keys.Select):
			opt, _ := strconv.Atoi(msg.String())
			_, err = m.engine.SelectOption(m.engine.Current(), opt-1)
		case key.Matches(msg, m.keys.Next):
			err = m.engine.Advance()
		case key.Matches(msg, m.keys.Prev):
			err = m.engine.Retreat()
		}
	case quiz.Completed:
		switch {
		case key.Matches(msg, m.keys.Retry):
			m.engine.Retry()
			m.gen++
		case key.Matches(msg, m.keys.Back):
			m.screen = screenPick
		}
	}
	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func (m model) View() string {
	var body string
	if m.screen == screenPick {
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.stylize("Choose a quiz", lipgloss.Color("33")),
			m.picker.View(),
		)
	} else {
		body = m.quizView()
	}
	parts := []string{body}
	if m.status != "" {
		parts = append(parts, m.stylize(m.status, lipgloss.Color("160")))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m model) quizView() string {
	snap := m.engine.Snapshot()
	q := m.engine.Quiz()
	var b strings.Builder
	b.WriteString(m.stylize(q.Title, lipgloss.Color("33")))
	b.WriteString("\n\n")

	switch m.engine.Phase() {
	case quiz.NotStarted:
		fmt.Fprintf(&b, "%s\n%d questions · %s · %s\n\nPress enter to start.\n",
			q.Description, snap.Total, q.Difficulty, quiz.FormatTime(snap.Duration))
	case quiz.InProgress:
		view := snap.Question
		if view == nil {
			break
		}
		fmt.Fprintf(&b, "Question %d of %d    ⏱ %s\n\n%s\n\n", view.Index+1, snap.Total, quiz.FormatTime(snap.Remaining), view.Text)
		for i, opt := range view.Options {
			line := fmt.Sprintf("  %d. %s", i+1, opt)
			switch {
			case view.Correct != nil && i == *view.Correct:
				line = m.stylize(line+"  ✓", lipgloss.Color("34"))
			case view.Selected != nil && i == *view.Selected:
				line = m.stylize(line+"  ✗", lipgloss.Color("160"))
			}
			b.WriteString(line + "\n")
		}
		if snap.Revealed && view.Explanation != "" {
			b.WriteString("\n" + m.stylize(view.Explanation, lipgloss.Color("244")) + "\n")
		}
	case quiz.Completed:
		score := *snap.Score
		fb := score.Feedback()
		fmt.Fprintf(&b, "%s %d%%  %s\n\nCorrect: %d  Incorrect: %d  Unanswered: %d  Time: %s\n",
			fb.Emoji, score.Percentage, fb.Message, score.Correct, score.Incorrect, score.Unanswered, quiz.FormatTime(score.TimeTaken))
	}
	return b.String()
}

func (m model) stylize(text string, color lipgloss.Color) string {
	if m.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
