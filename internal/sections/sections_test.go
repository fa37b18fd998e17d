package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/view"
)

func TestAboutFallbacks(t *testing.T) {
	v := About(content.AboutInfo{})
	assert.Equal(t, DefaultBio, v.Bio)
	assert.Equal(t, PlaceholderImage, v.ImageURL)

	v = About(content.AboutInfo{Bio: "Hi", ImageURL: "/me.png"})
	assert.Equal(t, "Hi", v.Bio)
	assert.Equal(t, "/me.png", v.ImageURL)
}

func TestSkillsNilIsEmptyRow(t *testing.T) {
	assert.NotNil(t, Skills(nil))
	assert.Empty(t, Skills(nil))
}

func TestProjectsKeepIndexAndOptionalLinks(t *testing.T) {
	cards := Projects([]content.Project{
		{Title: "A", LiveLink: "https://a.dev"},
		{Title: "B", GithubLink: "https://github.com/b"},
	})
	require.Len(t, cards, 2)
	assert.Equal(t, 0, cards[0].Index)
	assert.Equal(t, "https://a.dev", cards[0].LiveLink)
	assert.Empty(t, cards[0].GithubLink)
	assert.Equal(t, 1, cards[1].Index)
	assert.Empty(t, cards[1].LiveLink)
}

func TestBlogsPreserveContent(t *testing.T) {
	cards := Blogs([]content.BlogPost{{Title: "T", Content: "a\n\n  b"}})
	require.Len(t, cards, 1)
	assert.Equal(t, "a\n\n  b", cards[0].Content)
	assert.Empty(t, cards[0].ImageURL)
}

func TestExperienceEmpty(t *testing.T) {
	v := Experience(nil)
	assert.True(t, v.Empty)
	assert.Equal(t, "No experience data found.", v.EmptyMessage)

	v = Experience([]content.ExperienceEntry{{Role: "first"}, {Role: "second"}})
	assert.False(t, v.Empty)
	assert.Equal(t, "first", v.Entries[0].Role)
	assert.Equal(t, "second", v.Entries[1].Role)
}

func TestTestimonialFallbacks(t *testing.T) {
	card := Testimonial(content.Testimonial{Name: "  "})
	assert.Equal(t, "Anonymous Client", card.Name)
	assert.Equal(t, NoFeedback, card.Feedback)
	assert.Equal(t, DefaultPosition, card.Position)
	assert.Empty(t, card.ImageURL)

	card = Testimonial(content.Testimonial{Name: "Sam", Feedback: "Great", Position: "CTO", ImageURL: "/s.png"})
	assert.Equal(t, TestimonialCard{Name: "Sam", Feedback: "Great", Position: "CTO", ImageURL: "/s.png"}, card)
}

func TestTestimonialsEmpty(t *testing.T) {
	v := Testimonials([]content.Testimonial{})
	assert.True(t, v.Empty)
	assert.Equal(t, NoTestimonials, v.EmptyMessage)

	v = Testimonials([]content.Testimonial{{}})
	assert.False(t, v.Empty)
	assert.Len(t, v.Cards, 1)
}

func TestContactStatusMessages(t *testing.T) {
	v := Contact(view.FormState{Status: view.StatusSuccess}, nil)
	assert.Equal(t, "success", v.Status)
	assert.Equal(t, ContactSuccess, v.StatusMessage)

	v = Contact(view.FormState{Status: view.StatusError, Fields: view.Fields{Name: "Jane"}}, nil)
	assert.Equal(t, ContactError, v.StatusMessage)
	assert.Equal(t, "Jane", v.Name)

	v = Contact(view.FormState{}, map[string]string{"email": "bad"})
	assert.Equal(t, "none", v.Status)
	assert.Empty(t, v.StatusMessage)
	assert.Equal(t, "bad", v.Errors["email"])
}

func TestOverlayResolution(t *testing.T) {
	c := content.Content{
		Projects: []content.Project{{Title: "P"}},
		Blogs:    []content.BlogPost{{Title: "B"}},
	}.Normalize()

	assert.Nil(t, Overlay(view.Overlay{Kind: view.OverlayClosed}, c))

	o := Overlay(view.Overlay{Kind: view.OverlayProject, Index: 0}, c)
	require.NotNil(t, o)
	assert.Equal(t, "project", o.Kind)
	assert.Equal(t, "P", o.Project.Title)
	assert.Nil(t, o.Blog)

	o = Overlay(view.Overlay{Kind: view.OverlayBlog, Index: 0}, c)
	require.NotNil(t, o)
	assert.Equal(t, "B", o.Blog.Title)

	assert.Nil(t, Overlay(view.Overlay{Kind: view.OverlayBlog, Index: 3}, c))
}

func TestNav(t *testing.T) {
	nav := Nav()
	require.Len(t, nav, 7)
	assert.Equal(t, NavItem{ID: "about", Title: "About"}, nav[0])
	assert.Equal(t, NavItem{ID: "contact", Title: "Contact"}, nav[6])
}

func TestBuildOnEmptyState(t *testing.T) {
	pv := Build(view.State{Loading: false, Content: content.Empty()}, Site{OwnerName: "Ada", Year: 2026})

	assert.Equal(t, DefaultBio, pv.About.Bio)
	assert.True(t, pv.Experience.Empty)
	assert.True(t, pv.Testimonials.Empty)
	assert.Empty(t, pv.Projects)
	assert.Nil(t, pv.Overlay)
	assert.Equal(t, "Ada", pv.Site.OwnerName)
}
