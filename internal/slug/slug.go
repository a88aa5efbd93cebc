// Package slug parses course-city path segments such as
// "sap-fico-training-in-pune".
package slug

import (
	"errors"
	"strings"
)

// Separator joins the course part and the city part of a slug.
const Separator = "-in-"

// ErrNotResolvable is returned when a segment has no Separator.
var ErrNotResolvable = errors.New("slug: not resolvable")

// courseSuffixes lists the marketing suffixes in their documented order.
// Matching follows regex alternation: the match starting earliest in the
// string wins, so "-developer-course" beats "-course".
var courseSuffixes = []string{
	"-course",
	"-training",
	"-developer",
	"-developer-course",
	"-developer-training",
}

// Result is a parsed slug.
type Result struct {
	CourseID string
	CityID   string
}

// Resolve splits segment at the last Separator and strips one known
// marketing suffix from the course part. Identifiers are not normalized;
// whether they exist is for the catalog to decide.
func Resolve(segment string) (Result, error) {
	idx := strings.LastIndex(segment, Separator)
	if idx < 0 {
		return Result{}, ErrNotResolvable
	}
	course := segment[:idx]
	city := segment[idx+len(Separator):]
	return Result{CourseID: stripSuffix(course), CityID: city}, nil
}

func stripSuffix(course string) string {
	start := -1
	for _, suffix := range courseSuffixes {
		if !strings.HasSuffix(course, suffix) {
			continue
		}
		if s := len(course) - len(suffix); start < 0 || s < start {
			start = s
		}
	}
	if start < 0 {
		return course
	}
	return course[:start]
}

// Build returns the canonical slug for a course and city.
func Build(courseID, cityID string) string {
	return courseID + Separator + cityID
}
