package seo

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/slug"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml with the static pages, every quiz and every
// course and city pair.
func Sitemap(store *catalog.Store, baseURL string) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	set := urlset{NS: sitemapNS}
	add := func(path, freq, priority string) {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + path, ChangeFreq: freq, Priority: priority})
	}

	add("/", "weekly", "1.0")
	add("/about-us", "monthly", "0.6")
	add("/quiz", "weekly", "0.7")
	for _, q := range store.Quizzes() {
		add("/quiz/"+q.ID, "monthly", "0.5")
	}
	for _, course := range store.Courses() {
		for _, city := range store.Cities() {
			priority := "0.8"
			if city.Major {
				priority = "0.9"
			}
			add("/"+slug.Build(course.PathPrefix(), city.ID), "weekly", priority)
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/submit\n")
	b.WriteString("Disallow: /ws/\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", base)
	return b.String()
}
