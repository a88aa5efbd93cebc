package quiz

import "fmt"

// Score is the tally of a session.
type Score struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Unanswered int `json:"unanswered"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
	// TimeTaken is in seconds.
	TimeTaken int `json:"timeTaken"`
}

// Feedback is the result banner for a score band.
type Feedback struct {
	Emoji   string `json:"emoji"`
	Message string `json:"message"`
}

// Feedback returns the banner for the score's percentage band.
func (s Score) Feedback() Feedback {
	switch {
	case s.Percentage >= 80:
		return Feedback{"🎉", "Excellent work! You've mastered this topic!"}
	case s.Percentage >= 60:
		return Feedback{"👍", "Good job! You're on the right track."}
	case s.Percentage >= 40:
		return Feedback{"😊", "Not bad! Keep practicing to improve."}
	default:
		return Feedback{"😅", "Keep learning! Practice makes perfect."}
	}
}

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
