package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/slug"
	"gopkg.in/yaml.v3"
)

// Catalog file names inside the data directory.
const (
	CoursesFile   = "courses.yaml"
	CitiesFile    = "cities.yaml"
	QuizzesFile   = "quizzes.yaml"
	RedirectsFile = "redirects.yaml"
)

type coursesDoc struct {
	Courses []courseDoc `yaml:"courses"`
}

type courseDoc struct {
	ID          string     `yaml:"id"`
	SlugPrefix  string     `yaml:"slug_prefix"`
	Title       string     `yaml:"title"`
	FullTitle   string     `yaml:"full_title"`
	Description string     `yaml:"description"`
	Duration    string     `yaml:"duration"`
	Modules     []string   `yaml:"modules"`
	JobRoles    []string   `yaml:"job_roles"`
	Category    string     `yaml:"category"`
	Keywords    []string   `yaml:"keywords"`
	Content     contentDoc `yaml:"content"`
}

type contentDoc struct {
	Header         yaml.Node `yaml:"header"`
	Why            yaml.Node `yaml:"why"`
	SapMod         yaml.Node `yaml:"sap_mod"`
	Modules        yaml.Node `yaml:"modules"`
	Description    yaml.Node `yaml:"description"`
	Certificate    yaml.Node `yaml:"certificate"`
	FAQ            yaml.Node `yaml:"faq"`
	RelatedCourses yaml.Node `yaml:"related_courses"`
}

type citiesDoc struct {
	Cities []cityDoc `yaml:"cities"`
}

type cityDoc struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	State      string  `yaml:"state"`
	RegionCode string  `yaml:"region_code"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	Major      bool    `yaml:"major"`
	Office     *Office `yaml:"office"`
}

type quizzesDoc struct {
	Quizzes []Quiz `yaml:"quizzes"`
}

type redirectsDoc struct {
	Redirects []Redirect `yaml:"redirects"`
}

// Redirect is a permanent legacy path redirect.
type Redirect struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads the catalog files from fsys and builds a Store.
// The quizzes and redirects files are optional.
func Load(fsys fs.FS) (*Store, error) {
	var cd coursesDoc
	if err := decodeFile(fsys, CoursesFile, &cd, true); err != nil {
		return nil, err
	}
	var cityd citiesDoc
	if err := decodeFile(fsys, CitiesFile, &cityd, true); err != nil {
		return nil, err
	}
	var qd quizzesDoc
	if err := decodeFile(fsys, QuizzesFile, &qd, false); err != nil {
		return nil, err
	}
	var rd redirectsDoc
	if err := decodeFile(fsys, RedirectsFile, &rd, false); err != nil {
		return nil, err
	}

	courses := make([]*Course, 0, len(cd.Courses))
	for i := range cd.Courses {
		c, err := cd.Courses[i].toCourse()
		if err != nil {
			return nil, fmt.Errorf("%s: course %q: %w", CoursesFile, cd.Courses[i].ID, err)
		}
		courses = append(courses, c)
	}

	cities := make([]*City, 0, len(cityd.Cities))
	for _, doc := range cityd.Cities {
		if doc.ID == "" || doc.Name == "" {
			return nil, fmt.Errorf("%s: city %q: id and name are required", CitiesFile, doc.ID)
		}
		if strings.Contains(doc.ID, slug.Separator) {
			return nil, fmt.Errorf("%s: city %q: id must not contain %q", CitiesFile, doc.ID, slug.Separator)
		}
		cities = append(cities, &City{
			ID:         doc.ID,
			Name:       doc.Name,
			State:      doc.State,
			RegionCode: doc.RegionCode,
			Latitude:   doc.Latitude,
			Longitude:  doc.Longitude,
			Major:      doc.Major,
			Office:     doc.Office,
		})
	}

	quizzes := make([]*Quiz, 0, len(qd.Quizzes))
	for i := range qd.Quizzes {
		q := qd.Quizzes[i]
		if q.ID == "" {
			return nil, fmt.Errorf("%s: quiz #%d: id is required", QuizzesFile, i+1)
		}
		if err := validateQuiz(&q); err != nil {
			return nil, fmt.Errorf("%s: quiz %q: %w", QuizzesFile, q.ID, err)
		}
		q.normalize()
		quizzes = append(quizzes, &q)
	}

	return NewStore(courses, cities, quizzes, rd.Redirects)
}

func (d *courseDoc) toCourse() (*Course, error) {
	if d.ID == "" {
		return nil, errors.New("id is required")
	}
	c := &Course{
		ID:          d.ID,
		SlugPrefix:  d.SlugPrefix,
		Title:       d.Title,
		FullTitle:   d.FullTitle,
		Description: d.Description,
		Duration:    d.Duration,
		Modules:     d.Modules,
		JobRoles:    d.JobRoles,
		Category:    d.Category,
		Keywords:    d.Keywords,
	}
	if c.FullTitle == "" {
		c.FullTitle = c.Title
	}

	// A page slug built from the prefix must resolve back to this course.
	if r, err := slug.Resolve(slug.Build(c.PathPrefix(), "x")); err != nil || r.CourseID != c.ID {
		return nil, fmt.Errorf("slug prefix %q does not resolve back to the course id", c.PathPrefix())
	}

	sections := []struct {
		name string
		src  *yaml.Node
		dst  *content.Node
	}{
		{"header", &d.Content.Header, &c.Content.Header},
		{"why", &d.Content.Why, &c.Content.Why},
		{"sap_mod", &d.Content.SapMod, &c.Content.SapMod},
		{"modules", &d.Content.Modules, &c.Content.Modules},
		{"description", &d.Content.Description, &c.Content.Description},
		{"certificate", &d.Content.Certificate, &c.Content.Certificate},
		{"faq", &d.Content.FAQ, &c.Content.FAQ},
		{"related_courses", &d.Content.RelatedCourses, &c.Content.RelatedCourses},
	}
	for _, s := range sections {
		n, err := content.FromYAML(s.src)
		if err != nil {
			return nil, fmt.Errorf("content.%s: %w", s.name, err)
		}
		*s.dst = n
	}
	return c, nil
}

func validateQuiz(q *Quiz) error {
	for i, question := range q.Questions {
		if len(question.Options) == 0 {
			return fmt.Errorf("question %d has no options", i+1)
		}
		if question.Correct < 0 || question.Correct >= len(question.Options) {
			return fmt.Errorf("question %d: correct option %d out of range", i+1, question.Correct)
		}
	}
	return nil
}

func decodeFile(fsys fs.FS, name string, out any, required bool) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse %s: multiple documents are not supported", name)
		}
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
