package quiz

// QuestionView is the client view of the current question. The answer key
// is only exposed once the question is revealed.
type QuestionView struct {
	Index       int      `json:"index"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Selected    *int     `json:"selected,omitempty"`
	Correct     *int     `json:"correctAnswer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Snapshot is an immutable copy of engine state.
type Snapshot struct {
	QuizID    string        `json:"quizId"`
	Title     string        `json:"title"`
	Phase     string        `json:"phase"`
	Current   int           `json:"current"`
	Total     int           `json:"total"`
	Duration  int           `json:"duration"`
	Remaining int           `json:"remaining"`
	Revealed  bool          `json:"revealed"`
	Answered  []bool        `json:"answered"`
	Question  *QuestionView `json:"currentQuestion,omitempty"`
	Score     *Score        `json:"score,omitempty"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		QuizID:    e.quiz.ID,
		Title:     e.quiz.Title,
		Phase:     e.phase.String(),
		Current:   e.current,
		Total:     len(e.quiz.Questions),
		Duration:  e.duration,
		Remaining: e.remaining,
		Revealed:  e.Revealed(e.current),
		Answered:  make([]bool, len(e.quiz.Questions)),
	}
	for i := range s.Answered {
		s.Answered[i] = e.Revealed(i)
	}
	if e.phase == InProgress && e.current < len(e.quiz.Questions) {
		q := e.quiz.Questions[e.current]
		view := &QuestionView{
			Index:   e.current,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		}
		if opt, ok := e.answers[e.current]; ok {
			selected, correct := opt, q.Correct
			view.Selected = &selected
			view.Correct = &correct
			view.Explanation = q.Explanation
		}
		s.Question = view
	}
	if e.phase == Completed {
		score := e.Score()
		s.Score = &score
	}
	return s
}
