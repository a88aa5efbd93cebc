// Package catalog holds the static course, city and quiz records.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Store is the read-only catalog. It is built once and never mutated, so it
// is safe for concurrent use.
type Store struct {
	courses   map[string]*Course
	cities    map[string]*City
	quizzes   map[string]*Quiz
	redirects map[string]string

	courseOrder []*Course
	cityOrder   []*City
	quizOrder   []*Quiz
}

// NewStore builds a Store. Identifiers must be unique per kind.
func NewStore(courses []*Course, cities []*City, quizzes []*Quiz, redirects []Redirect) (*Store, error) {
	s := &Store{
		courses:   make(map[string]*Course, len(courses)),
		cities:    make(map[string]*City, len(cities)),
		quizzes:   make(map[string]*Quiz, len(quizzes)),
		redirects: make(map[string]string, len(redirects)),
	}
	for _, c := range courses {
		if _, dup := s.courses[c.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate course %q", c.ID)
		}
		s.courses[c.ID] = c
		s.courseOrder = append(s.courseOrder, c)
	}
	for _, c := range cities {
		if _, dup := s.cities[c.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate city %q", c.ID)
		}
		s.cities[c.ID] = c
		s.cityOrder = append(s.cityOrder, c)
	}
	for _, q := range quizzes {
		if _, dup := s.quizzes[q.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate quiz %q", q.ID)
		}
		s.quizzes[q.ID] = q
		s.quizOrder = append(s.quizOrder, q)
	}
	sort.Slice(s.quizOrder, func(i, j int) bool { return s.quizOrder[i].ID < s.quizOrder[j].ID })
	for _, r := range redirects {
		if r.From == "" || r.To == "" {
			return nil, fmt.Errorf("catalog: redirect needs from and to")
		}
		if _, dup := s.redirects[r.From]; dup {
			return nil, fmt.Errorf("catalog: duplicate redirect %q", r.From)
		}
		s.redirects[r.From] = r.To
	}
	return s, nil
}

// Default returns the catalog embedded in the binary.
func Default() (*Store, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("catalog: embedded data: %w", err)
	}
	return Load(sub)
}

// Open loads the catalog from dir, or the embedded catalog when dir is empty.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

// LookupCourse returns the course with the given id.
func (s *Store) LookupCourse(id string) (*Course, bool) {
	c, ok := s.courses[id]
	return c, ok
}

// LookupCity returns the city with the given id.
func (s *Store) LookupCity(id string) (*City, bool) {
	c, ok := s.cities[id]
	return c, ok
}

// Quiz returns the quiz for a topic id, or nil when the topic is unknown.
func (s *Store) Quiz(id string) *Quiz {
	return s.quizzes[id]
}

// Quizzes returns all quizzes ordered by id.
func (s *Store) Quizzes() []*Quiz {
	return append([]*Quiz(nil), s.quizOrder...)
}

// Courses returns courses in catalog order.
func (s *Store) Courses() []*Course {
	return append([]*Course(nil), s.courseOrder...)
}

// Cities returns cities in catalog order.
func (s *Store) Cities() []*City {
	return append([]*City(nil), s.cityOrder...)
}

// Redirect returns the permanent redirect target for path.
func (s *Store) Redirect(path string) (string, bool) {
	to, ok := s.redirects[path]
	return to, ok
}
