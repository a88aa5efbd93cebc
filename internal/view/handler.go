package view

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/page"
	"github.com/cderp/coursesite/internal/quiz"
	"github.com/cderp/coursesite/internal/seo"
	"github.com/cderp/coursesite/internal/slug"
)

// Site serves the HTML pages, sitemap and robots file.
type Site struct {
	catalog  *catalog.Store
	resolver *page.Resolver
	seo      *seo.Generator
}

// NewSite creates the page handlers.
func NewSite(cat *catalog.Store, resolver *page.Resolver, gen *seo.Generator) *Site {
	return &Site{catalog: cat, resolver: resolver, seo: gen}
}

// RegisterRoutes registers the page routes. The course page pattern is a
// catch-all single segment, so it must be registered on the root router.
func (s *Site) RegisterRoutes(r chi.Router) {
	r.Get("/", s.Home)
	r.Get("/about-us", s.About)
	r.Get("/quiz", s.QuizListing)
	r.Get("/quiz/{topic}", s.QuizTopic)
	r.Get("/sitemap.xml", s.Sitemap)
	r.Get("/robots.txt", s.Robots)
	r.Get("/{slug}", s.CoursePage)
	r.NotFound(s.NotFound)
}

// Home renders the home page.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	data := newHomePage(s.seo.SiteName(), s.catalog.Courses(), s.catalog.Cities())
	s.serve(w, http.StatusOK, s.seo.Home(), nil, homeTemplate, data)
}

// About renders the about page.
func (s *Site) About(w http.ResponseWriter, r *http.Request) {
	s.serve(w, http.StatusOK, s.seo.About(), nil, aboutTemplate, newAboutPage(s.seo.SiteName(), s.catalog.Cities()))
}

// QuizListing renders the quiz topics for the ?category= filter.
func (s *Site) QuizListing(w http.ResponseWriter, r *http.Request) {
	listing := quiz.List(s.catalog, r.URL.Query().Get("category"))
	s.serve(w, http.StatusOK, s.seo.QuizListing(), nil, quizListingTemplate, newQuizListingPage(listing))
}

// QuizTopic renders a quiz start screen or the quiz not-found page.
func (s *Site) QuizTopic(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	q := s.catalog.Quiz(topic)
	meta := s.seo.QuizTopic(topic, q)
	if q == nil {
		s.serve(w, http.StatusNotFound, meta, nil, quizNotFoundTemplate, topic)
		return
	}
	s.serve(w, http.StatusOK, meta, nil, quizStartTemplate, q)
}

// CoursePage resolves the slug and renders the course-city page.
func (s *Site) CoursePage(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "slug")
	p, err := s.resolver.Resolve(segment)
	if err != nil {
		if !errors.Is(err, page.ErrNotFound) {
			slog.Error("Page resolution failed", "slug", segment, "error", err)
		}
		s.NotFound(w, r)
		return
	}
	meta := s.seo.Build(p.Course.ID, p.City.ID)
	data := newCoursePage(p, s.relatedLink(p.City.ID))
	s.serve(w, http.StatusOK, meta, s.seo.JSONLD(p.Course.ID, p.City.ID), courseTemplate, data)
}

// NotFound renders the generic 404 page.
func (s *Site) NotFound(w http.ResponseWriter, _ *http.Request) {
	s.serve(w, http.StatusNotFound, s.seo.NotFound(), nil, notFoundTemplate, nil)
}

// Sitemap serves sitemap.xml.
func (s *Site) Sitemap(w http.ResponseWriter, _ *http.Request) {
	data, err := seo.Sitemap(s.catalog, s.seo.BaseURL())
	if err != nil {
		slog.Error("Sitemap generation failed", "error", err)
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		slog.Debug("Sitemap write failed", "error", err)
	}
}

// Robots serves robots.txt.
func (s *Site) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(seo.Robots(s.seo.BaseURL()))); err != nil {
		slog.Debug("Robots write failed", "error", err)
	}
}

func (s *Site) relatedLink(cityID string) LinkFunc {
	return func(courseID string) string {
		c, ok := s.catalog.LookupCourse(courseID)
		if !ok {
			return ""
		}
		return "/" + slug.Build(c.PathPrefix(), cityID)
	}
}

// serve renders into a buffer first so a template error can still answer 500.
func (s *Site) serve(w http.ResponseWriter, status int, meta seo.Metadata, structured []map[string]any, name string, data any) {
	var buf bytes.Buffer
	if err := renderDocument(&buf, meta, structured, name, data); err != nil {
		slog.Error("Template error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Page write failed", "template", name, "error", err)
	}
}
