package view

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/page"
	"github.com/cderp/coursesite/internal/seo"
)

func renderString(t *testing.T, name string, data any) string {
	t.Helper()
	var b strings.Builder
	if err := render(&b, name, data); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return b.String()
}

func newSite(t *testing.T) (*Site, *catalog.Store) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return NewSite(cat, page.NewResolver(cat), seo.NewGenerator(cat, "https://example.com", "CD")), cat
}

func TestCoursePageSectionedAnchors(t *testing.T) {
	_, cat := newSite(t)
	p, err := page.NewResolver(cat).Resolve("digital-marketing-in-pune")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	html := renderString(t, courseTemplate, newCoursePage(p, nil))

	for _, want := range []string{
		`id="modules"`,
		`id="pay-per-click"`,
		`id="search-engine-optimization"`,
		`id="social-media-marketing"`,
		`id="advance-analytics"`,
		`<strong>Google Ads</strong>`,
		"Digital Marketing Course in Pune",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(html, content.Token) {
		t.Error("page still contains the city token")
	}
	if strings.Index(html, `id="pay-per-click"`) > strings.Index(html, `id="search-engine-optimization"`) {
		t.Error("description parts out of order")
	}
}

func TestCoursePageTabbedCurriculum(t *testing.T) {
	_, cat := newSite(t)
	p, err := page.NewResolver(cat).Resolve("sap-fico-in-mumbai")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	html := renderString(t, courseTemplate, newCoursePage(p, func(id string) string { return "/" + id + "-in-mumbai" }))

	for _, want := range []string{`id="curriculum"`, `role="tablist"`, `data-tab="advanced"`, `href="/digital-marketing-in-mumbai"`, `action="/api/submit"`} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestContentIsEscaped(t *testing.T) {
	tree := content.Map{{Key: "title", Value: content.String(`<script>alert(1)</script>`)}}
	html := renderString(t, "node", tree)
	if strings.Contains(html, "<script>") {
		t.Fatalf("unescaped markup: %s", html)
	}
	if !strings.Contains(html, "<dt>title</dt>") {
		t.Errorf("map key not rendered: %s", html)
	}

	header := section{Kind: "header", Title: "<b>x</b>", Links: []link{{Href: "javascript:alert(1)", Label: "x"}}}
	html = renderString(t, courseTemplate, coursePage{Sections: []section{header}})
	if strings.Contains(html, "javascript:") {
		t.Fatalf("unsafe href kept: %s", html)
	}
	if strings.Contains(html, "<b>x</b>") {
		t.Fatalf("unescaped title: %s", html)
	}
}

func TestRenderDocumentWrapsBody(t *testing.T) {
	var b strings.Builder
	if err := renderDocument(&b, seo.Metadata{Title: "Quiz"}, nil, quizNotFoundTemplate, "sap-basics"); err != nil {
		t.Fatalf("renderDocument: %v", err)
	}
	html := b.String()
	if !strings.Contains(html, "<title>Quiz</title>") {
		t.Errorf("missing title: %s", html)
	}
	start := strings.Index(html, "<main>")
	body := strings.Index(html, "Quiz Not Found")
	if start < 0 || body < start {
		t.Errorf("body not inside main: %s", html)
	}
	if strings.Contains(html, "application/ld+json") {
		t.Error("structured data rendered without documents")
	}
}

func TestMarkdownRendersGFM(t *testing.T) {
	got := string(Markdown("**bold** and ~~gone~~"))
	for _, want := range []string{"<strong>bold</strong>", "<del>gone</del>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown missing %q: %s", want, got)
		}
	}
}

func TestDocumentHead(t *testing.T) {
	s, _ := newSite(t)
	meta := s.seo.Build("sap-fico", "pune")
	var b strings.Builder
	if err := renderDocument(&b, meta, s.seo.JSONLD("sap-fico", "pune"), notFoundTemplate, nil); err != nil {
		t.Fatalf("renderDocument: %v", err)
	}
	html := b.String()

	for _, want := range []string{
		"<title>SAP FICO Course in Pune | CD</title>",
		`rel="canonical" href="https://example.com/sap-fico-in-pune"`,
		`hreflang="x-default"`,
		`property="og:image"`,
		`name="geo.region"`,
		`<script type="application/ld+json">`,
		`"@type":"LocalBusiness"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	body, _ := io.ReadAll(w.Result().Body)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(target, "/robots") && !strings.HasPrefix(target, "/sitemap") && ct != "text/html; charset=utf-8" {
		t.Errorf("%s: Content-Type = %q", target, ct)
	}
	return w.Code, string(body)
}

func TestSiteRoutes(t *testing.T) {
	s, _ := newSite(t)
	r := chi.NewRouter()
	s.RegisterRoutes(r)

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/", http.StatusOK, `href="/hr-training-course-in-nagpur"`},
		{"/about-us", http.StatusOK, "1st Floor, Shivaji Nagar"},
		{"/quiz", http.StatusOK, "Interactive Quizzes"},
		{"/quiz?category=sap", http.StatusOK, `data-category="sap"`},
		{"/quiz/python", http.StatusOK, `data-ws="/ws/quiz/python"`},
		{"/quiz/sap-basics", http.StatusNotFound, "Quiz Not Found"},
		{"/sap-fico-in-pune", http.StatusOK, "SAP FICO Course in Pune"},
		{"/hr-training-course-in-nagpur", http.StatusOK, "HR career support"},
		{"/sap-fico-in-atlantis", http.StatusNotFound, "Page Not Found"},
		{"/about-our-team", http.StatusNotFound, "Page Not Found"},
		{"/robots.txt", http.StatusOK, "Sitemap: https://example.com/sitemap.xml"},
		{"/sitemap.xml", http.StatusOK, "https://example.com/data-analytics-in-thane"},
		{"/a/b/c", http.StatusNotFound, "Page Not Found"},
	}
	for _, tt := range tests {
		status, body := get(t, r, tt.target)
		if status != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.target, status, tt.status)
		}
		if !strings.Contains(body, tt.want) {
			t.Errorf("%s: body missing %q", tt.target, tt.want)
		}
	}
}

func TestQuizListingFilter(t *testing.T) {
	s, _ := newSite(t)
	r := chi.NewRouter()
	s.RegisterRoutes(r)

	_, body := get(t, r, "/quiz?category=non-sap")
	if strings.Contains(body, `href="/quiz/sap-fico"`) {
		t.Error("non-sap listing shows an SAP quiz")
	}
	if !strings.Contains(body, `href="/quiz/python"`) {
		t.Error("non-sap listing misses python")
	}
}
