package seo

import (
	"fmt"

	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/slug"
)

// JSONLD returns schema.org structured data for a course and city page:
// a Course, plus a LocalBusiness when the city has an office. It returns
// nil when either id is unknown.
func (g *Generator) JSONLD(courseID, cityID string) []map[string]any {
	course, ok := g.catalog.LookupCourse(courseID)
	if !ok {
		return nil
	}
	city, ok := g.catalog.LookupCity(cityID)
	if !ok {
		return nil
	}

	provider := map[string]any{
		"@type":  "Organization",
		"name":   g.siteName,
		"sameAs": g.URL("/"),
	}
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Course",
		"name":        fmt.Sprintf("%s in %s", course.FullTitle, city.Name),
		"description": content.SubstituteText(course.Description, city.Name),
		"url":         g.URL(slug.Build(course.PathPrefix(), city.ID)),
		"provider":    provider,
		"hasCourseInstance": map[string]any{
			"@type":          "CourseInstance",
			"courseMode":     "Blended",
			"location":       city.Name,
			"courseWorkload": course.Duration,
		},
	}
	if len(course.Modules) > 0 {
		doc["syllabusSections"] = course.Modules
	}
	out := []map[string]any{doc}

	if city.HasOffice() {
		o := city.Office
		business := map[string]any{
			"@context":  "https://schema.org",
			"@type":     "LocalBusiness",
			"name":      fmt.Sprintf("%s - %s", g.siteName, city.Name),
			"address":   map[string]any{"@type": "PostalAddress", "streetAddress": o.Address, "addressLocality": city.Name, "addressRegion": city.State, "addressCountry": "IN"},
			"telephone": o.Phone,
			"geo": map[string]any{
				"@type":     "GeoCoordinates",
				"latitude":  city.Latitude,
				"longitude": city.Longitude,
			},
			"hasMap": o.MapURL,
		}
		if o.Hours.Open != "" && o.Hours.Close != "" {
			business["openingHours"] = fmt.Sprintf("Mo-Su %s-%s", o.Hours.Open, o.Hours.Close)
		}
		if o.ReviewCount > 0 {
			business["aggregateRating"] = map[string]any{
				"@type":       "AggregateRating",
				"ratingValue": o.Rating,
				"reviewCount": o.ReviewCount,
			}
		}
		out = append(out, business)
	}
	return out
}
