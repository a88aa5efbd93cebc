// Command quizplay runs the catalog quizzes in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/quiz"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quizplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	topic := fs.String("topic", "", "quiz id to open directly")
	dir := fs.String("catalog", "", "catalog directory (default: embedded catalog)")
	category := fs.String("category", quiz.CategoryAll, "quiz category filter (all|sap|non-sap)")
	uiMode := fs.String("ui", "auto", "ui mode (auto|live|plain)")
	noColor := fs.Bool("no-color", false, "disable colors")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cat, err := catalog.Open(*dir)
	if err != nil {
		fmt.Fprintf(stderr, "load catalog: %v\n", err)
		return 1
	}

	var selected *catalog.Quiz
	if *topic != "" {
		selected = cat.Quiz(*topic)
		if selected == nil {
			fmt.Fprintf(stderr, "unknown quiz %q\n", *topic)
			return 1
		}
	}

	decision, err := resolveUIMode(*uiMode, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}

	listing := quiz.List(cat, *category)
	if !decision.useLive {
		printListing(stdout, listing, selected)
		return 0
	}

	var m model
	if selected != nil {
		m = newQuizModel(selected, time.Second, *noColor)
	} else {
		quizzes := make([]*catalog.Quiz, 0, len(listing.Quizzes))
		for _, s := range listing.Quizzes {
			quizzes = append(quizzes, cat.Quiz(s.ID))
		}
		if len(quizzes) == 0 {
			fmt.Fprintf(stderr, "no quizzes in category %q\n", listing.Category)
			return 1
		}
		m = newModel(quizzes, time.Second, *noColor)
	}
	program := tea.NewProgram(m, tea.WithOutput(stdout), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(stderr, "quizplay: %v\n", err)
		return 1
	}
	return 0
}

// printListing is the non-interactive output.
func printListing(w io.Writer, l quiz.Listing, selected *catalog.Quiz) {
	if selected != nil {
		s := quiz.Summarize(selected)
		fmt.Fprintf(w, "%s %s\n%s\n%s · %d questions · %s\n", s.Icon, s.Title, s.Description, s.Difficulty, s.QuestionCount, quiz.FormatTime(s.Duration))
		return
	}
	fmt.Fprintf(w, "%d quizzes, %d questions (%s)\n", l.Stats.Quizzes, l.Stats.Questions, l.Category)
	for _, q := range l.Quizzes {
		fmt.Fprintf(w, "  %-20s %-28s %-12s %2d  %s\n", q.ID, q.Title, q.Difficulty, q.QuestionCount, quiz.FormatTime(q.Duration))
	}
}

// uiModeDecision captures whether to use the live UI.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal reports whether a writer is a TTY.
var isTerminal = defaultIsTerminal

func resolveUIMode(mode string, stdout io.Writer) (uiModeDecision, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		normalized = "auto"
	}
	switch normalized {
	case "auto":
		return uiModeDecision{useLive: isTerminal(stdout)}, nil
	case "live":
		if isTerminal(stdout) {
			return uiModeDecision{useLive: true}, nil
		}
		return uiModeDecision{
			warning: "Live UI requested but stdout is not a TTY; falling back to plain output.",
		}, nil
	case "plain":
		return uiModeDecision{}, nil
	default:
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

func defaultIsTerminal(stdout io.Writer) bool {
	if file, ok := stdout.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
