package seo

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/slug"
)

func newTestGenerator(t *testing.T) (*Generator, *catalog.Store) {
	t.Helper()
	store, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return NewGenerator(store, "https://example.test/", "Connecting Dots ERP"), store
}

func TestBuildCoursePage(t *testing.T) {
	g, _ := newTestGenerator(t)

	md := g.Build("sap-fico", "nagpur")
	if md.IsZero() {
		t.Fatal("expected metadata")
	}
	if md.Title != "SAP FICO Course in Nagpur | Connecting Dots ERP" {
		t.Fatalf("Title = %q", md.Title)
	}
	if strings.Contains(md.Description, "{city}") || !strings.Contains(md.Description, "Nagpur") {
		t.Fatalf("Description = %q", md.Description)
	}
	if md.Canonical != "https://example.test/sap-fico-in-nagpur" {
		t.Fatalf("Canonical = %q", md.Canonical)
	}
	langs := map[string]bool{}
	for _, a := range md.Alternates {
		langs[a.HrefLang] = a.Href == md.Canonical
	}
	for _, l := range []string{"en-IN", "en", "x-default"} {
		if !langs[l] {
			t.Fatalf("alternate %s missing or not canonical: %+v", l, md.Alternates)
		}
	}
	if md.OpenGraph == nil || md.OpenGraph.URL != md.Canonical || md.Twitter == nil || md.Icons == nil {
		t.Fatalf("social fields missing: %+v", md)
	}
	if md.Other != nil {
		t.Fatalf("non-major city should have no geo fields: %v", md.Other)
	}
}

func TestBuildMajorCityAddsGeo(t *testing.T) {
	g, _ := newTestGenerator(t)

	md := g.Build("digital-marketing", "pune")
	for _, key := range []string{"geo.region", "geo.placename", "geo.position", "ICBM", "course.provider", "course.location", "course.category", "theme-color"} {
		if md.Other[key] == "" {
			t.Fatalf("missing %s in %v", key, md.Other)
		}
	}
	if md.Other["geo.placename"] != "Pune" || md.Other["geo.region"] != "IN-MH" {
		t.Fatalf("geo = %v", md.Other)
	}
}

func TestBuildUsesSlugPrefix(t *testing.T) {
	g, _ := newTestGenerator(t)
	md := g.Build("hr-training", "pune")
	if md.Canonical != "https://example.test/hr-training-course-in-pune" {
		t.Fatalf("Canonical = %q", md.Canonical)
	}
}

func TestBuildUnknownIsEmpty(t *testing.T) {
	g, _ := newTestGenerator(t)
	for _, pair := range [][2]string{{"cobol", "pune"}, {"sap-fico", "atlantis"}, {"", ""}} {
		if md := g.Build(pair[0], pair[1]); !md.IsZero() || md.OpenGraph != nil || md.Other != nil {
			t.Fatalf("Build(%q, %q) = %+v, want zero", pair[0], pair[1], md)
		}
		if ld := g.JSONLD(pair[0], pair[1]); ld != nil {
			t.Fatalf("JSONLD(%q, %q) = %v, want nil", pair[0], pair[1], ld)
		}
	}
}

func TestJSONLDOfficeCity(t *testing.T) {
	g, _ := newTestGenerator(t)

	withOffice := g.JSONLD("sap-fico", "pune")
	if len(withOffice) != 2 || withOffice[0]["@type"] != "Course" || withOffice[1]["@type"] != "LocalBusiness" {
		t.Fatalf("JSONLD pune = %v", withOffice)
	}
	if withOffice[1]["openingHours"] != "Mo-Su 09:00-21:00" {
		t.Fatalf("openingHours = %v", withOffice[1]["openingHours"])
	}

	noOffice := g.JSONLD("sap-fico", "mumbai")
	if len(noOffice) != 1 {
		t.Fatalf("JSONLD mumbai = %v", noOffice)
	}
}

func TestQuizTopicMetadata(t *testing.T) {
	g, store := newTestGenerator(t)

	md := g.QuizTopic("sap-fico", store.Quiz("sap-fico"))
	if md.Title != "Sap Fico Quiz | Test Your Knowledge - Connecting Dots ERP" {
		t.Fatalf("Title = %q", md.Title)
	}
	if !strings.Contains(md.Description, "3 interactive questions") {
		t.Fatalf("Description = %q", md.Description)
	}
	if md.Canonical != "https://example.test/quiz/sap-fico" {
		t.Fatalf("Canonical = %q", md.Canonical)
	}

	missing := g.QuizTopic("sap-basics", store.Quiz("sap-basics"))
	if missing.Title != "Quiz Not Found - Connecting Dots ERP" {
		t.Fatalf("not found Title = %q", missing.Title)
	}
}

func TestStaticPages(t *testing.T) {
	g, _ := newTestGenerator(t)
	cases := map[string]Metadata{
		"https://example.test/":         g.Home(),
		"https://example.test/about-us": g.About(),
		"https://example.test/quiz":     g.QuizListing(),
	}
	for canonical, md := range cases {
		if md.Canonical != canonical || md.Title == "" || md.Robots != DefaultRobots {
			t.Fatalf("static metadata for %s = %+v", canonical, md)
		}
	}
}

func TestTopicTitle(t *testing.T) {
	tests := map[string]string{
		"sap-fico":          "Sap Fico",
		"python":            "Python",
		"digital-marketing": "Digital Marketing",
		"":                  "",
	}
	for in, want := range tests {
		if got := TopicTitle(in); got != want {
			t.Fatalf("TopicTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSitemapListsEveryPair(t *testing.T) {
	_, store := newTestGenerator(t)

	body, err := Sitemap(store, "https://example.test")
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	var set urlset
	if err := xml.Unmarshal(body, &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	locs := map[string]bool{}
	for _, u := range set.URLs {
		locs[u.Loc] = true
	}
	for _, course := range store.Courses() {
		for _, city := range store.Cities() {
			loc := "https://example.test/" + slug.Build(course.PathPrefix(), city.ID)
			if !locs[loc] {
				t.Fatalf("sitemap missing %s", loc)
			}
		}
	}
	for _, q := range store.Quizzes() {
		if !locs["https://example.test/quiz/"+q.ID] {
			t.Fatalf("sitemap missing quiz %s", q.ID)
		}
	}
	want := 3 + len(store.Quizzes()) + len(store.Courses())*len(store.Cities())
	if len(set.URLs) != want {
		t.Fatalf("sitemap has %d urls, want %d", len(set.URLs), want)
	}
}

func TestRobots(t *testing.T) {
	got := Robots("https://example.test/")
	if !strings.Contains(got, "Sitemap: https://example.test/sitemap.xml") || !strings.HasPrefix(got, "User-agent: *") {
		t.Fatalf("Robots = %q", got)
	}
}
