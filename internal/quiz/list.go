package quiz

import "github.com/cderp/coursesite/internal/catalog"

// Listing categories.
const (
	CategoryAll    = "all"
	CategorySAP    = catalog.CategorySAP
	CategoryNonSAP = catalog.CategoryNonSAP
)

// Categories are the listing filter options in display order.
var Categories = []struct {
	ID   string
	Name string
}{
	{CategoryAll, "All Categories"},
	{CategorySAP, "SAP"},
	{CategoryNonSAP, "Non-SAP"},
}

// Summary is a listing card for one quiz.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	Duration      int    `json:"duration"`
	Category      string `json:"category"`
	Icon          string `json:"icon"`
	QuestionCount int    `json:"questionCount"`
}

// Stats are totals over the whole quiz catalog.
type Stats struct {
	Quizzes   int `json:"quizzes"`
	Questions int `json:"questions"`
}

// Listing is the topic listing for one category filter.
type Listing struct {
	Category string    `json:"category"`
	Quizzes  []Summary `json:"quizzes"`
	Stats    Stats     `json:"stats"`
}

// List filters the catalog's quizzes by category. Unknown categories are
// treated as "all". Stats always cover the full catalog.
func List(store *catalog.Store, category string) Listing {
	if category != CategorySAP && category != CategoryNonSAP {
		category = CategoryAll
	}
	all := store.Quizzes()
	out := Listing{Category: category, Quizzes: make([]Summary, 0, len(all))}
	for _, q := range all {
		out.Stats.Quizzes++
		out.Stats.Questions += len(q.Questions)

		switch category {
		case CategorySAP:
			if !q.IsSAP() {
				continue
			}
		case CategoryNonSAP:
			if q.IsSAP() {
				continue
			}
		}
		out.Quizzes = append(out.Quizzes, Summarize(q))
	}
	return out
}

// Summarize builds the listing card for q.
func Summarize(q *catalog.Quiz) Summary {
	return Summary{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		Difficulty:    q.Difficulty,
		Duration:      q.Duration,
		Category:      q.Category,
		Icon:          q.Icon,
		QuestionCount: len(q.Questions),
	}
}
