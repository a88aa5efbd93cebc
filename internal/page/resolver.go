package page

import (
	"errors"
	"fmt"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/slug"
)

var (
	// ErrNotFound is returned for every slug that does not produce a page.
	ErrNotFound = errors.New("page: not found")
	// ErrUnknownCourseOrCity is returned when a resolved id is not in the catalog.
	ErrUnknownCourseOrCity = errors.New("page: unknown course or city")
)

// Resolver turns slugs into composed pages using a read-only catalog.
type Resolver struct {
	catalog *catalog.Store
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(store *catalog.Store) *Resolver {
	return &Resolver{catalog: store}
}

// Resolve runs the full pipeline for a path segment. Any failure wraps
// ErrNotFound and no page is returned.
func (r *Resolver) Resolve(segment string) (*Page, error) {
	res, err := slug.Resolve(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return r.ResolveIDs(res.CourseID, res.CityID, segment)
}

// ResolveIDs composes the page for a course and city id pair.
func (r *Resolver) ResolveIDs(courseID, cityID, segment string) (*Page, error) {
	course, ok := r.catalog.LookupCourse(courseID)
	if !ok {
		return nil, fmt.Errorf("%w: %w: course %q", ErrNotFound, ErrUnknownCourseOrCity, courseID)
	}
	city, ok := r.catalog.LookupCity(cityID)
	if !ok {
		return nil, fmt.Errorf("%w: %w: city %q", ErrNotFound, ErrUnknownCourseOrCity, cityID)
	}
	p := Compose(course, city)
	if segment == "" {
		segment = slug.Build(course.PathPrefix(), city.ID)
	}
	p.Slug = segment
	return p, nil
}
