package catalog

import (
	"strings"

	"github.com/cderp/coursesite/internal/content"
)

// Course is a catalog course. Content strings may carry content.Token.
type Course struct {
	ID          string
	SlugPrefix  string
	Title       string
	FullTitle   string
	Description string
	Duration    string
	Modules     []string
	JobRoles    []string
	Category    string
	Keywords    []string
	Content     CourseContent
}

// PathPrefix is the course part used when building page slugs.
func (c *Course) PathPrefix() string {
	if c.SlugPrefix != "" {
		return c.SlugPrefix
	}
	return c.ID
}

// CourseContent holds the per-section content trees of a course page.
// Any section may be nil.
type CourseContent struct {
	Header         content.Node
	Why            content.Node
	SapMod         content.Node
	Modules        content.Node
	Description    content.Node
	Certificate    content.Node
	FAQ            content.Node
	RelatedCourses content.Node
}

// City is a catalog city.
type City struct {
	ID         string
	Name       string
	State      string
	RegionCode string
	Latitude   float64
	Longitude  float64
	Major      bool
	Office     *Office
}

// HasOffice reports whether the institute runs a training center there.
func (c *City) HasOffice() bool {
	return c.Office != nil
}

// Office describes a physical training center.
type Office struct {
	Address     string  `yaml:"address"`
	Phone       string  `yaml:"phone"`
	Hours       Hours   `yaml:"hours"`
	Rating      float64 `yaml:"rating"`
	ReviewCount int     `yaml:"review_count"`
	MapURL      string  `yaml:"map_url"`
}

// Hours are daily opening hours.
type Hours struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// Quiz categories.
const (
	CategorySAP    = "sap"
	CategoryNonSAP = "non-sap"
)

// DefaultQuizDuration is used when a quiz declares no time budget.
const DefaultQuizDuration = 300

// Quiz is a timed multiple-choice quiz.
type Quiz struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  string     `json:"difficulty" yaml:"difficulty"`
	Duration    int        `json:"duration" yaml:"duration"`
	Category    string     `json:"category" yaml:"category"`
	Icon        string     `json:"icon" yaml:"icon"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Question is a single quiz question.
type Question struct {
	Text        string   `json:"question" yaml:"question"`
	Options     []string `json:"options" yaml:"options"`
	Correct     int      `json:"correctAnswer" yaml:"correct"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// IsSAP reports whether a quiz belongs to the SAP category by id or title.
func (q *Quiz) IsSAP() bool {
	return q.ID == "sap" || strings.HasPrefix(q.ID, "sap-") ||
		strings.Contains(strings.ToLower(q.Title), "sap")
}

func (q *Quiz) normalize() {
	if q.Title == "" && q.ID != "" {
		q.Title = strings.ToUpper(q.ID[:1]) + q.ID[1:]
	}
	if q.Difficulty == "" {
		q.Difficulty = "Medium"
	}
	if q.Duration <= 0 {
		q.Duration = DefaultQuizDuration
	}
	if q.Icon == "" {
		q.Icon = "❓"
	}
	if q.Category == "" {
		if strings.HasPrefix(q.ID, "sap") || strings.Contains(strings.ToLower(q.Title), "sap") {
			q.Category = CategorySAP
		} else {
			q.Category = CategoryNonSAP
		}
	}
}
