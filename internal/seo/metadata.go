// Package seo derives page metadata, structured data, the sitemap and
// robots directives from the catalog.
package seo

import (
	"fmt"
	"strings"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/slug"
)

// Shared metadata constants.
const (
	TwitterHandle = "@CD_ERP"
	ThemeColor    = "#0b3d91"
	Locale        = "en_US"
	ManifestPath  = "/static/site.webmanifest"
	IconPath      = "/static/favicon.ico"
	AppleIconPath = "/static/apple-touch-icon.png"
	DefaultRobots = "index, follow"
)

// Image is a social preview image.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

// OpenGraph holds og:* fields.
type OpenGraph struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	SiteName    string  `json:"siteName"`
	Locale      string  `json:"locale"`
	Type        string  `json:"type"`
	Images      []Image `json:"images,omitempty"`
}

// Twitter holds twitter:* fields.
type Twitter struct {
	Card        string   `json:"card"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Site        string   `json:"site,omitempty"`
	Creator     string   `json:"creator,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Alternate is a language alternate link.
type Alternate struct {
	HrefLang string `json:"hreflang"`
	Href     string `json:"href"`
}

// Icons are favicon references.
type Icons struct {
	Icon  string `json:"icon"`
	Apple string `json:"apple"`
}

// Metadata is the head metadata for one page. The zero value means no
// metadata is available.
type Metadata struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Canonical   string            `json:"canonical,omitempty"`
	Alternates  []Alternate       `json:"alternates,omitempty"`
	Robots      string            `json:"robots,omitempty"`
	OpenGraph   *OpenGraph        `json:"openGraph,omitempty"`
	Twitter     *Twitter          `json:"twitter,omitempty"`
	Icons       *Icons            `json:"icons,omitempty"`
	Manifest    string            `json:"manifest,omitempty"`
	Other       map[string]string `json:"other,omitempty"`
}

// IsZero reports whether m carries no metadata.
func (m Metadata) IsZero() bool {
	return m.Title == "" && m.Description == "" && m.Canonical == ""
}

// Generator builds metadata from read-only catalog records.
type Generator struct {
	catalog  *catalog.Store
	baseURL  string
	siteName string
}

// NewGenerator creates a Generator. baseURL is the canonical site origin.
func NewGenerator(store *catalog.Store, baseURL, siteName string) *Generator {
	return &Generator{
		catalog:  store,
		baseURL:  strings.TrimRight(baseURL, "/"),
		siteName: siteName,
	}
}

// BaseURL returns the canonical origin without a trailing slash.
func (g *Generator) BaseURL() string { return g.baseURL }

// SiteName returns the brand name used in titles.
func (g *Generator) SiteName() string { return g.siteName }

// URL joins path onto the canonical origin.
func (g *Generator) URL(path string) string {
	if path == "" || path == "/" {
		return g.baseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.baseURL + path
}

// Build returns the metadata for a course and city page, or the zero value
// when either id is unknown.
func (g *Generator) Build(courseID, cityID string) Metadata {
	course, ok := g.catalog.LookupCourse(courseID)
	if !ok {
		return Metadata{}
	}
	city, ok := g.catalog.LookupCity(cityID)
	if !ok {
		return Metadata{}
	}

	canonical := g.URL(slug.Build(course.PathPrefix(), city.ID))
	title := fmt.Sprintf("%s Course in %s | %s", course.Title, city.Name, g.siteName)
	description := content.SubstituteText(course.Description, city.Name)
	image := Image{
		URL:    g.URL("/static/og/" + course.ID + ".jpg"),
		Width:  1200,
		Height: 630,
		Alt:    fmt.Sprintf("%s training in %s", course.FullTitle, city.Name),
	}

	md := Metadata{
		Title:       title,
		Description: description,
		Keywords:    courseKeywords(course, city),
		Canonical:   canonical,
		Alternates: []Alternate{
			{HrefLang: "en-IN", Href: canonical},
			{HrefLang: "en", Href: canonical},
			{HrefLang: "x-default", Href: canonical},
		},
		Robots: "index, follow, max-image-preview:large",
		OpenGraph: &OpenGraph{
			Title:       title,
			Description: description,
			URL:         canonical,
			SiteName:    g.siteName,
			Locale:      "en_IN",
			Type:        "website",
			Images:      []Image{image},
		},
		Twitter: &Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Site:        TwitterHandle,
			Creator:     TwitterHandle,
			Images:      []string{image.URL},
		},
		Icons:    &Icons{Icon: IconPath, Apple: AppleIconPath},
		Manifest: ManifestPath,
	}

	if city.Major {
		md.Other = g.geoMeta(course, city)
	}
	return md
}

func courseKeywords(course *catalog.Course, city *catalog.City) []string {
	keywords := make([]string, 0, len(course.Keywords)+3)
	for _, k := range course.Keywords {
		keywords = append(keywords, k+" in "+city.Name)
	}
	keywords = append(keywords,
		fmt.Sprintf("%s course in %s", course.Title, city.Name),
		fmt.Sprintf("%s training institute in %s", course.Title, city.Name),
		fmt.Sprintf("best %s classes in %s", course.Title, city.Name),
	)
	return keywords
}

// geoMeta is merged into Other for major cities.
func (g *Generator) geoMeta(course *catalog.Course, city *catalog.City) map[string]string {
	location := city.Name
	if city.State != "" {
		location += ", " + city.State
	}
	return map[string]string{
		"geo.region":                            city.RegionCode,
		"geo.placename":                         city.Name,
		"geo.position":                          fmt.Sprintf("%.4f;%.4f", city.Latitude, city.Longitude),
		"ICBM":                                  fmt.Sprintf("%.4f, %.4f", city.Latitude, city.Longitude),
		"course.provider":                       g.siteName,
		"course.location":                       location,
		"course.category":                       course.Category,
		"theme-color":                           ThemeColor,
		"msapplication-navbutton-color":         ThemeColor,
		"apple-mobile-web-app-status-bar-style": "black-translucent",
		"mobile-web-app-capable":                "yes",
		"apple-mobile-web-app-capable":          "yes",
		"apple-mobile-web-app-title":            g.siteName,
	}
}

// Home returns the home page metadata.
func (g *Generator) Home() Metadata {
	title := g.siteName + " | SAP Training Institute In Pune"
	description := "We offer expert-led training in SAP, Software Development, Digital Marketing, and HR courses with strong placement support for your career."
	return g.static("/", title, description, []string{
		"SAP Certification Courses",
		"SAP Course",
		"Data Science Course",
		"Power Bi Course",
		"Digital Marketing Course",
		"HR Training Institute",
		"SAP Training Institute",
		"Python Course",
	})
}

// About returns the about page metadata.
func (g *Generator) About() Metadata {
	title := "About " + g.siteName + " | Our Mission & Vision"
	description := "Learn about " + g.siteName + ", our mission, vision, values, and the team dedicated to empowering students and professionals with industry-leading training."
	return g.static("/about-us", title, description, []string{
		g.siteName, "about us", "mission and vision", "SAP training institute", "corporate training",
	})
}

// QuizListing returns the quiz topic listing metadata.
func (g *Generator) QuizListing() Metadata {
	title := "Interactive Quizzes | Test Your Knowledge - " + g.siteName
	description := "Challenge yourself with interactive quizzes covering SAP, Software Development, Digital Marketing, and HR topics. Test your skills and track your progress."
	return g.static("/quiz", title, description, []string{
		"online quiz", "SAP quiz", "programming quiz", "digital marketing quiz", "HR quiz", "skill assessment",
	})
}

// QuizTopic returns the metadata for a quiz page. A nil quiz yields the
// not-found variant.
func (g *Generator) QuizTopic(topic string, q *catalog.Quiz) Metadata {
	if q == nil {
		return Metadata{
			Title:       "Quiz Not Found - " + g.siteName,
			Description: "The requested quiz topic was not found. Explore our other interactive quizzes to test your knowledge.",
			Robots:      "noindex, follow",
		}
	}
	name := TopicTitle(topic)
	questions := "multiple"
	if n := len(q.Questions); n > 0 {
		questions = fmt.Sprint(n)
	}
	title := fmt.Sprintf("%s Quiz | Test Your Knowledge - %s", name, g.siteName)
	description := fmt.Sprintf("Challenge yourself with our comprehensive %s quiz. Test your skills with %s interactive questions and improve your expertise.", name, questions)
	return g.static("/quiz/"+topic, title, description, []string{
		name + " quiz", name + " test", name + " assessment", "online quiz", "skill test", g.siteName,
	})
}

// NotFound returns metadata for the generic not-found page.
func (g *Generator) NotFound() Metadata {
	return Metadata{
		Title:       "Page Not Found - " + g.siteName,
		Description: "The page you are looking for does not exist.",
		Robots:      "noindex, follow",
	}
}

func (g *Generator) static(path, title, description string, keywords []string) Metadata {
	canonical := g.URL(path)
	return Metadata{
		Title:       title,
		Description: description,
		Keywords:    keywords,
		Canonical:   canonical,
		Robots:      DefaultRobots,
		OpenGraph: &OpenGraph{
			Title:       title,
			Description: description,
			URL:         canonical,
			SiteName:    g.siteName,
			Locale:      Locale,
			Type:        "website",
		},
		Twitter: &Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Site:        TwitterHandle,
			Creator:     TwitterHandle,
		},
		Icons:    &Icons{Icon: IconPath, Apple: AppleIconPath},
		Manifest: ManifestPath,
	}
}

// TopicTitle turns a topic id like "sap-fico" into "Sap Fico".
func TopicTitle(topic string) string {
	words := strings.Split(topic, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
