package view

import (
	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/quiz"
	"github.com/cderp/coursesite/internal/slug"
)

type courseCard struct {
	ID       string
	Title    string
	Duration string
	Links    []link
}

type homePage struct {
	SiteName string
	Courses  []courseCard
}

// newHomePage lists every course with a link to each of its city pages.
func newHomePage(siteName string, courses []*catalog.Course, cities []*catalog.City) homePage {
	out := homePage{SiteName: siteName}
	for _, c := range courses {
		card := courseCard{ID: c.ID, Title: c.FullTitle, Duration: c.Duration}
		for _, city := range cities {
			card.Links = append(card.Links, link{
				Href:  "/" + slug.Build(c.PathPrefix(), city.ID),
				Label: c.Title + " in " + city.Name,
			})
		}
		out.Courses = append(out.Courses, card)
	}
	return out
}

type aboutPage struct {
	SiteName string
	Offices  []*catalog.City
}

func newAboutPage(siteName string, cities []*catalog.City) aboutPage {
	out := aboutPage{SiteName: siteName}
	for _, c := range cities {
		if c.HasOffice() {
			out.Offices = append(out.Offices, c)
		}
	}
	return out
}

type categoryLink struct {
	ID      string
	Name    string
	Current bool
}

type quizListingPage struct {
	quiz.Listing
	Categories []categoryLink
}

func newQuizListingPage(l quiz.Listing) quizListingPage {
	out := quizListingPage{Listing: l}
	for _, c := range quiz.Categories {
		out.Categories = append(out.Categories, categoryLink{ID: c.ID, Name: c.Name, Current: c.ID == l.Category})
	}
	return out
}
