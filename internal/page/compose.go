// Package page resolves course-city slugs into composed landing pages.
package page

import (
	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/content"
)

// MultiSectionCourse is the course whose description is split into
// independently anchored subsections.
const MultiSectionCourse = "digital-marketing"

// Layout is the page layout variant.
type Layout string

// Layout variants.
const (
	LayoutDefault   Layout = "default"
	LayoutSectioned Layout = "sectioned"
)

// Curriculum is the curriculum renderer variant.
type Curriculum string

// Curriculum variants.
const (
	CurriculumNone   Curriculum = "none"
	CurriculumTabbed Curriculum = "tabbed"
	CurriculumLegacy Curriculum = "legacy"
)

// SectionKind names a page section component.
type SectionKind string

// Section kinds, in no particular order.
const (
	SectionSummary     SectionKind = "summary"
	SectionHeader      SectionKind = "header"
	SectionWhy         SectionKind = "why"
	SectionSapMod      SectionKind = "sap-mod"
	SectionCurriculum  SectionKind = "curriculum"
	SectionModules     SectionKind = "modules"
	SectionCounselor   SectionKind = "counselor"
	SectionDescription SectionKind = "description"
	SectionCertificate SectionKind = "certificate"
	SectionProgram     SectionKind = "program-highlights"
	SectionFAQ         SectionKind = "faq"
	SectionHRCard      SectionKind = "hr-card"
	SectionRelated     SectionKind = "related-courses"
)

// descriptionParts are the named description subsections and their anchors.
var descriptionParts = []struct {
	key    string
	anchor string
}{
	{"main", ""},
	{"ppc", "pay-per-click"},
	{"seo", "search-engine-optimization"},
	{"smm", "social-media-marketing"},
	{"analytics", "advance-analytics"},
}

// Section is one rendered block of a page.
type Section struct {
	Kind   SectionKind  `json:"kind"`
	Anchor string       `json:"anchor,omitempty"`
	Part   string       `json:"part,omitempty"`
	Data   content.Node `json:"-"`
}

// Context is the city-specific materialization of a course's content.
type Context struct {
	Header         content.Node
	Why            content.Node
	SapMod         content.Node
	Modules        content.Node
	Description    content.Node
	Certificate    content.Node
	FAQ            content.Node
	RelatedCourses content.Node
}

// NewContext substitutes the city name into every content section.
func NewContext(c *catalog.CourseContent, cityName string) Context {
	return Context{
		Header:         content.Substitute(c.Header, cityName),
		Why:            content.Substitute(c.Why, cityName),
		SapMod:         content.Substitute(c.SapMod, cityName),
		Modules:        content.Substitute(c.Modules, cityName),
		Description:    content.Substitute(c.Description, cityName),
		Certificate:    content.Substitute(c.Certificate, cityName),
		FAQ:            content.Substitute(c.FAQ, cityName),
		RelatedCourses: content.Substitute(c.RelatedCourses, cityName),
	}
}

// Page is a fully composed course-city page.
type Page struct {
	Slug        string
	Course      *catalog.Course
	City        *catalog.City
	Description string
	Layout      Layout
	Curriculum  Curriculum
	Context     Context
	Sections    []Section
}

// Compose builds the page for a course and city. Both must be non-nil.
func Compose(course *catalog.Course, city *catalog.City) *Page {
	ctx := NewContext(&course.Content, city.Name)
	p := &Page{
		Course:      course,
		City:        city,
		Description: content.SubstituteText(course.Description, city.Name),
		Layout:      SelectLayout(course.ID, ctx.Description),
		Curriculum:  SelectCurriculum(ctx.Modules),
		Context:     ctx,
	}
	p.Sections = p.assemble()
	return p
}

// SelectLayout picks the sectioned layout only for MultiSectionCourse with
// more than one named description subsection.
func SelectLayout(courseID string, description content.Node) Layout {
	if courseID != MultiSectionCourse {
		return LayoutDefault
	}
	m, ok := description.(content.Map)
	if !ok {
		return LayoutDefault
	}
	named := 0
	for _, part := range descriptionParts {
		if m.Has(part.key) {
			named++
		}
	}
	if named > 1 {
		return LayoutSectioned
	}
	return LayoutDefault
}

// SelectCurriculum picks the curriculum renderer from the modules block.
func SelectCurriculum(modules content.Node) Curriculum {
	if modules == nil {
		return CurriculumNone
	}
	if m, ok := modules.(content.Map); ok {
		if tabs, ok := m.Get("tabs"); ok {
			if _, isSeq := tabs.(content.Seq); isSeq {
				return CurriculumTabbed
			}
		}
	}
	return CurriculumLegacy
}

func (p *Page) assemble() []Section {
	ctx := p.Context
	sections := []Section{{Kind: SectionSummary}}

	add := func(kind SectionKind, data content.Node) {
		if data != nil {
			sections = append(sections, Section{Kind: kind, Data: data})
		}
	}

	add(SectionHeader, ctx.Header)
	add(SectionWhy, ctx.Why)
	add(SectionSapMod, ctx.SapMod)

	switch p.Curriculum {
	case CurriculumTabbed:
		sections = append(sections, Section{Kind: SectionCurriculum, Anchor: "curriculum", Data: ctx.Modules})
	case CurriculumLegacy:
		sections = append(sections, Section{Kind: SectionModules, Anchor: "modules", Data: ctx.Modules})
	}

	sections = append(sections, Section{Kind: SectionCounselor})

	if p.Layout == LayoutSectioned {
		m := ctx.Description.(content.Map)
		for _, part := range descriptionParts {
			if v, ok := m.Get(part.key); ok && v != nil {
				sections = append(sections, Section{Kind: SectionDescription, Anchor: part.anchor, Part: part.key, Data: v})
			}
		}
	} else {
		add(SectionDescription, ctx.Description)
	}

	add(SectionCertificate, ctx.Certificate)
	sections = append(sections, Section{Kind: SectionProgram})
	add(SectionFAQ, ctx.FAQ)
	if p.Course.Category == "hr" {
		sections = append(sections, Section{Kind: SectionHRCard})
	}
	add(SectionRelated, ctx.RelatedCourses)
	return sections
}

// Kinds lists the section kinds in page order.
func (p *Page) Kinds() []SectionKind {
	kinds := make([]SectionKind, len(p.Sections))
	for i, s := range p.Sections {
		kinds[i] = s.Kind
	}
	return kinds
}
