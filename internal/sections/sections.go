// Package sections maps portfolio content to the view models the templates
// render. Every function here is pure and applies the display fallbacks for
// missing fields.
package sections

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/view"
)

type AboutView struct {
	Bio      string
	ImageURL string
}

type ProjectCard struct {
	Index       int
	Title       string
	Description string
	ImageURL    string
	LiveLink    string
	GithubLink  string
}

type BlogCard struct {
	Index    int
	Title    string
	Content  string
	ImageURL string
}

type ExperienceView struct {
	Entries      []content.ExperienceEntry
	Empty        bool
	EmptyMessage string
}

type TestimonialCard struct {
	Feedback string
	Name     string
	Position string
	ImageURL string
}

type TestimonialsView struct {
	Cards        []TestimonialCard
	Empty        bool
	EmptyMessage string
}

type NavItem struct {
	ID    string
	Title string
}

type ContactView struct {
	Name          string
	Email         string
	Message       string
	Submitting    bool
	Status        string
	StatusMessage string
	Errors        map[string]string
}

type OverlayView struct {
	Kind    string
	Project *ProjectCard
	Blog    *BlogCard
}

// Site carries page-wide values that do not come from the content API.
type Site struct {
	OwnerName string
	Year      int
}

type PageView struct {
	Site         Site
	Loading      bool
	Nav          []NavItem
	About        AboutView
	Skills       []content.Skill
	Projects     []ProjectCard
	Blogs        []BlogCard
	Experience   ExperienceView
	Testimonials TestimonialsView
	Contact      ContactView
	Overlay      *OverlayView
}

var navSections = []string{"about", "skills", "projects", "blogs", "experience", "testimonials", "contact"}

func Nav() []NavItem {
	caser := cases.Title(language.English)
	items := make([]NavItem, 0, len(navSections))
	for _, id := range navSections {
		items = append(items, NavItem{ID: id, Title: caser.String(id)})
	}
	return items
}

func About(a content.AboutInfo) AboutView {
	v := AboutView{Bio: a.Bio, ImageURL: a.ImageURL}
	if v.Bio == "" {
		v.Bio = DefaultBio
	}
	if v.ImageURL == "" {
		v.ImageURL = PlaceholderImage
	}
	return v
}

func Skills(skills []content.Skill) []content.Skill {
	if skills == nil {
		return []content.Skill{}
	}
	return skills
}

func Project(i int, p content.Project) ProjectCard {
	return ProjectCard{
		Index:       i,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		LiveLink:    p.LiveLink,
		GithubLink:  p.GithubLink,
	}
}

func Projects(projects []content.Project) []ProjectCard {
	cards := make([]ProjectCard, 0, len(projects))
	for i, p := range projects {
		cards = append(cards, Project(i, p))
	}
	return cards
}

func Blog(i int, b content.BlogPost) BlogCard {
	return BlogCard{Index: i, Title: b.Title, Content: b.Content, ImageURL: b.ImageURL}
}

func Blogs(blogs []content.BlogPost) []BlogCard {
	cards := make([]BlogCard, 0, len(blogs))
	for i, b := range blogs {
		cards = append(cards, Blog(i, b))
	}
	return cards
}

func Experience(entries []content.ExperienceEntry) ExperienceView {
	if len(entries) == 0 {
		return ExperienceView{Entries: []content.ExperienceEntry{}, Empty: true, EmptyMessage: NoExperience}
	}
	return ExperienceView{Entries: entries}
}

func Testimonial(t content.Testimonial) TestimonialCard {
	card := TestimonialCard{
		Feedback: t.Feedback,
		Name:     t.Name,
		Position: t.Position,
		ImageURL: t.ImageURL,
	}
	if card.Feedback == "" {
		card.Feedback = NoFeedback
	}
	if strings.TrimSpace(card.Name) == "" {
		card.Name = AnonymousClient
	}
	if card.Position == "" {
		card.Position = DefaultPosition
	}
	return card
}

func Testimonials(ts []content.Testimonial) TestimonialsView {
	if len(ts) == 0 {
		return TestimonialsView{Cards: []TestimonialCard{}, Empty: true, EmptyMessage: NoTestimonials}
	}
	cards := make([]TestimonialCard, 0, len(ts))
	for _, t := range ts {
		cards = append(cards, Testimonial(t))
	}
	return TestimonialsView{Cards: cards}
}

// Contact renders the form state. errs holds per-field validation messages
// and may be nil.
func Contact(st view.FormState, errs map[string]string) ContactView {
	v := ContactView{
		Name:       st.Fields.Name,
		Email:      st.Fields.Email,
		Message:    st.Fields.Message,
		Submitting: st.Submitting,
		Status:     st.Status.String(),
		Errors:     errs,
	}
	switch st.Status {
	case view.StatusSuccess:
		v.StatusMessage = ContactSuccess
	case view.StatusError:
		v.StatusMessage = ContactError
	}
	return v
}

// Overlay resolves the open overlay against the content. A reference to an
// item that is no longer present renders as closed.
func Overlay(o view.Overlay, c content.Content) *OverlayView {
	switch o.Kind {
	case view.OverlayProject:
		if o.Index >= 0 && o.Index < len(c.Projects) {
			card := Project(o.Index, c.Projects[o.Index])
			return &OverlayView{Kind: o.Kind.String(), Project: &card}
		}
	case view.OverlayBlog:
		if o.Index >= 0 && o.Index < len(c.Blogs) {
			card := Blog(o.Index, c.Blogs[o.Index])
			return &OverlayView{Kind: o.Kind.String(), Blog: &card}
		}
	}
	return nil
}

// Build assembles the whole page.
func Build(st view.State, site Site) PageView {
	return PageView{
		Site:         site,
		Loading:      st.Loading,
		Nav:          Nav(),
		About:        About(st.Content.About),
		Skills:       Skills(st.Content.Skills),
		Projects:     Projects(st.Content.Projects),
		Blogs:        Blogs(st.Content.Blogs),
		Experience:   Experience(st.Content.Experience),
		Testimonials: Testimonials(st.Content.Testimonials),
		Contact:      Contact(st.Form, nil),
		Overlay:      Overlay(st.Overlay, st.Content),
	}
}
