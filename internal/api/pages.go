package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/page"
	"github.com/cderp/coursesite/internal/seo"
)

type sectionResponse struct {
	Kind   page.SectionKind `json:"kind"`
	Anchor string           `json:"anchor,omitempty"`
	Part   string           `json:"part,omitempty"`
	Data   any              `json:"data,omitempty"`
}

type pageResponse struct {
	Slug           string            `json:"slug"`
	CourseID       string            `json:"courseId"`
	CityID         string            `json:"cityId"`
	CityName       string            `json:"cityName"`
	Description    string            `json:"description"`
	Layout         page.Layout       `json:"layout"`
	Curriculum     page.Curriculum   `json:"curriculum"`
	Sections       []sectionResponse `json:"sections"`
	Metadata       seo.Metadata      `json:"metadata"`
	StructuredData []map[string]any  `json:"structuredData,omitempty"`
}

// GetPage returns the resolved page context for a slug.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "slug")
	p, err := h.resolver.Resolve(segment)
	if err != nil {
		if !errors.Is(err, page.ErrNotFound) {
			slog.Error("Page resolution failed", "slug", segment, "error", err)
		}
		Error(w, http.StatusNotFound, "page not found")
		return
	}

	resp := pageResponse{
		Slug:           p.Slug,
		CourseID:       p.Course.ID,
		CityID:         p.City.ID,
		CityName:       p.City.Name,
		Description:    p.Description,
		Layout:         p.Layout,
		Curriculum:     p.Curriculum,
		Sections:       make([]sectionResponse, len(p.Sections)),
		Metadata:       h.seo.Build(p.Course.ID, p.City.ID),
		StructuredData: h.seo.JSONLD(p.Course.ID, p.City.ID),
	}
	for i, s := range p.Sections {
		resp.Sections[i] = sectionResponse{Kind: s.Kind, Anchor: s.Anchor, Part: s.Part, Data: content.ToValue(s.Data)}
	}
	JSON(w, http.StatusOK, resp)
}
