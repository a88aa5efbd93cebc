package view

import (
	"strconv"

	"github.com/cderp/coursesite/internal/content"
	"github.com/cderp/coursesite/internal/lead"
	"github.com/cderp/coursesite/internal/page"
)

// LinkFunc returns the page path for a course in the current city, or ""
// when the course is not in the catalog.
type LinkFunc func(courseID string) string

type link struct {
	Href  string
	Label string
}

type item struct {
	Title string
	Text  string
	Href  string
}

type module struct {
	Title  string
	Topics []string
	Tools  []string
}

type tab struct {
	Type    string
	Label   string
	Modules []module
}

type leadForm struct {
	Title       string
	Submit      string
	Course      string
	Page        string
	CountryCode string
	Countries   []lead.Country
}

// section is the template data for one page section. Each kind fills only
// the fields its template branch reads.
type section struct {
	Kind     page.SectionKind
	Anchor   string
	Title    string
	Subtitle string
	Text     string
	Note     string
	Body     string
	List     []string
	Alumni   []string
	Links    []link
	Items    []item
	Tabs     []tab
	Modules  []module
	Action   *link
	Form     *leadForm
	Tree     content.Node
}

type coursePage struct {
	Layout     page.Layout
	Curriculum page.Curriculum
	Sections   []section
}

// newCoursePage converts a composed page into template data.
func newCoursePage(p *page.Page, related LinkFunc) coursePage {
	out := coursePage{Layout: p.Layout, Curriculum: p.Curriculum}
	for _, s := range p.Sections {
		out.Sections = append(out.Sections, newSection(p, s, related))
	}
	return out
}

func newSection(p *page.Page, s page.Section, related LinkFunc) section {
	v := section{Kind: s.Kind, Anchor: s.Anchor, Tree: s.Data}
	n := s.Data
	switch s.Kind {
	case page.SectionSummary:
		v.Text = p.Description
		if p.Course.Duration != "" {
			v.Note = "Duration: " + p.Course.Duration
		}
		v.List = p.Course.JobRoles
	case page.SectionHeader:
		v.Title = content.Text(n, "title")
		v.Subtitle = content.Text(n, "subtitle")
		v.Text = content.Text(n, "description")
		v.List = content.Strings(n, "features")
		v.Alumni = content.Strings(n, "alumni")
		for _, b := range content.Items(n, "buttons") {
			v.Links = append(v.Links, link{Href: content.Text(b, "href"), Label: content.Text(b, "label")})
		}
		if form, ok := content.Lookup(n, "form"); ok {
			v.Form = newLeadForm(p, content.Text(form, "submit_text"))
			v.Form.Title = content.Text(form, "title")
		}
	case page.SectionWhy:
		v.Title = content.Text(n, "title")
		v.Items = items(content.Items(n, "points"), "title", "text")
	case page.SectionSapMod:
		v.Title = content.Text(n, "title")
		v.Items = items(content.Items(n, "modules"), "name", "text")
	case page.SectionCurriculum:
		for _, t := range content.Items(n, "tabs") {
			v.Tabs = append(v.Tabs, tab{
				Type:    content.Text(t, "type"),
				Label:   content.Text(t, "label"),
				Modules: modules(content.Items(t, "modules")),
			})
		}
		if href := content.Text(n, "global_actions", "start_learning"); href != "" {
			v.Action = &link{Href: href, Label: "Start learning"}
		}
	case page.SectionModules:
		v.Title = content.Text(n, "title")
		v.Modules = modules(content.Items(n, "items"))
	case page.SectionCounselor:
		v.Form = newLeadForm(p, "Get a call back")
	case page.SectionDescription:
		v.Title = content.Text(n, "title")
		v.Body = content.Text(n, "body")
		if text, ok := n.(content.String); ok && v.Body == "" {
			v.Body = string(text)
		}
	case page.SectionCertificate:
		v.Title = content.Text(n, "title")
		v.Text = content.Text(n, "text")
	case page.SectionProgram:
		v.List = []string{
			"Duration: " + p.Course.Duration,
			strconv.Itoa(len(p.Course.Modules)) + " modules",
			"Classroom batches in " + p.City.Name + " and live online",
		}
	case page.SectionFAQ:
		v.Title = content.Text(n, "title")
		v.Items = items(content.Items(n, "items"), "question", "answer")
	case page.SectionHRCard:
		v.Text = "Payroll software practice, statutory compliance case studies and interview preparation with HR leaders in " + p.City.Name + "."
	case page.SectionRelated:
		v.Title = content.Text(n, "title")
		for _, it := range content.Items(n, "items") {
			r := item{Title: content.Text(it, "title")}
			if related != nil {
				r.Href = related(content.Text(it, "course"))
			}
			v.Items = append(v.Items, r)
		}
	}
	return v
}

func newLeadForm(p *page.Page, submit string) *leadForm {
	if submit == "" {
		submit = "Submit"
	}
	return &leadForm{
		Submit:      submit,
		Course:      p.Course.Title,
		Page:        p.Slug,
		CountryCode: lead.DefaultCountryCode,
		Countries:   lead.Countries,
	}
}

func items(seq content.Seq, titleKey, textKey string) []item {
	out := make([]item, 0, len(seq))
	for _, n := range seq {
		out = append(out, item{Title: content.Text(n, titleKey), Text: content.Text(n, textKey)})
	}
	return out
}

func modules(seq content.Seq) []module {
	out := make([]module, 0, len(seq))
	for _, n := range seq {
		out = append(out, module{
			Title:  content.Text(n, "title"),
			Topics: content.Strings(n, "topics"),
			Tools:  content.Strings(n, "tools"),
		})
	}
	return out
}
