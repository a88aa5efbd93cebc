// Package view renders the site's HTML pages from embedded html/template
// files.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/quiz"
	"github.com/cderp/coursesite/internal/seo"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names.
const (
	layoutTemplate       = "layout.html"
	homeTemplate         = "home.html"
	aboutTemplate        = "about.html"
	quizListingTemplate  = "quiz_listing.html"
	quizStartTemplate    = "quiz_start.html"
	quizNotFoundTemplate = "quiz_not_found.html"
	notFoundTemplate     = "not_found.html"
	courseTemplate       = "course.html"
)

var funcMap = template.FuncMap{
	"markdown":   Markdown,
	"join":       strings.Join,
	"formatTime": quiz.FormatTime,
	"text": func(n content.Node) string {
		return content.Text(n)
	},
	"nodeKind": nodeKind,
}

var templates = template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))

// document is the data for the layout template.
type document struct {
	Meta       seo.Metadata
	Structured []map[string]any
	Body       template.HTML
}

// render executes the named template into w.
func render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

// renderDocument renders the named body template inside the site layout.
// Each structured data document becomes its own ld+json script.
func renderDocument(w io.Writer, meta seo.Metadata, structured []map[string]any, name string, data any) error {
	var body bytes.Buffer
	if err := render(&body, name, data); err != nil {
		return err
	}
	return render(w, layoutTemplate, document{
		Meta:       meta,
		Structured: structured,
		Body:       template.HTML(body.String()),
	})
}

func nodeKind(n content.Node) string {
	switch n.(type) {
	case content.String:
		return "string"
	case content.Scalar:
		return "scalar"
	case content.Seq:
		return "seq"
	case content.Map:
		return "map"
	}
	return ""
}
