package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Zachkp/folio/internal/sections"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/view"
)

type contactInput struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,browseremail"`
	Message string `form:"message" binding:"required"`
}

func (in contactInput) fields() view.Fields {
	return view.Fields{Name: in.Name, Email: in.Email, Message: in.Message}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// pageFor returns the caller's page, creating a session (and starting its
// fetch batch) on first contact.
func (s *Server) pageFor(c *gin.Context) *view.Page {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if page, ok := s.sessions.Get(id); ok {
			return page
		}
	}

	id, page := s.sessions.Create()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.sessions.ttl.Seconds()), "/", "", false, true)
	page.Mount()
	return page
}

func (s *Server) HandleIndex(c *gin.Context) {
	page := s.pageFor(c)

	if s.mountWait > 0 && page.Loading() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.mountWait)
		_ = page.Wait(ctx)
		cancel()
	}

	st := page.Snapshot()
	if st.Loading {
		c.HTML(http.StatusOK, "loading.html", nil)
		return
	}
	c.HTML(http.StatusOK, "index.html", sections.Build(st, s.site()))
}

func (s *Server) HandleOpenProject(c *gin.Context) {
	page := s.pageFor(c)

	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.notFound(c)
		return
	}
	project, err := page.OpenProject(i)
	if err != nil {
		s.notFound(c)
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "project-modal.html", sections.Project(i, project))
}

func (s *Server) HandleOpenBlog(c *gin.Context) {
	page := s.pageFor(c)

	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.notFound(c)
		return
	}
	blog, err := page.OpenBlog(i)
	if err != nil {
		s.notFound(c)
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "blog-modal.html", sections.Blog(i, blog))
}

func (s *Server) HandleCloseOverlay(c *gin.Context) {
	s.pageFor(c).CloseOverlay()

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.String(http.StatusOK, "")
}

func (s *Server) HandleContactForm(c *gin.Context) {
	page := s.pageFor(c)
	c.HTML(http.StatusOK, "contact.html", sections.Contact(page.Form().State(), nil))
}

func (s *Server) HandleContactSubmit(c *gin.Context) {
	page := s.pageFor(c)
	form := page.Form()

	var in contactInput
	if err := c.ShouldBind(&in); err != nil {
		form.Update(in.fields())
		s.renderContact(c, page, http.StatusUnprocessableEntity, validationMessages(err))
		return
	}

	err := form.Submit(c.Request.Context(), in.fields(), s.sender)
	if errors.Is(err, view.ErrSubmitInFlight) {
		s.renderContact(c, page, http.StatusConflict, nil)
		return
	}
	s.afterSubmit(in, err)

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/#contact")
		return
	}
	c.HTML(http.StatusOK, "contact.html", sections.Contact(form.State(), nil))
}

// renderContact answers a submission that did not go through. HTMX gets the
// form fragment, plain posts get the whole page with the form filled in.
func (s *Server) renderContact(c *gin.Context, page *view.Page, status int, errs map[string]string) {
	if isHTMX(c) {
		c.HTML(status, "contact.html", sections.Contact(page.Form().State(), errs))
		return
	}
	pv := sections.Build(page.Snapshot(), s.site())
	pv.Contact.Errors = errs
	c.HTML(status, "index.html", pv)
}

// afterSubmit records the outcome and forwards successful messages to the
// owner. Neither step affects what the visitor sees.
func (s *Server) afterSubmit(in contactInput, err error) {
	if err != nil {
		s.logger.Warn("Contact submission failed", "error", err)
	} else {
		s.logger.Info("Contact submission delivered")
	}

	if s.tracker != nil {
		if rerr := s.tracker.RecordSubmission(context.Background(), err == nil, s.now()); rerr != nil {
			s.logger.Error("Error recording submission", "error", rerr)
		}
	}

	if err == nil && s.notifier != nil && s.notifier.Enabled() {
		msg := in.fields().ContactMessage()
		go func() {
			if nerr := s.notifier.Notify(msg); nerr != nil {
				s.logger.Error("Error sending contact notification", "error", nerr)
			}
		}()
	}
}

func (s *Server) HandlePrivacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":           "Privacy Policy",
		"retentionMonths": store.RetentionMonths,
	})
}

func (s *Server) notFound(c *gin.Context) {
	if isHTMX(c) {
		c.Status(http.StatusNotFound)
		return
	}
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"error": "That item could not be found.",
	})
}

// validationMessages turns binding errors into per-field messages worded
// like the browser's own constraint messages.
func validationMessages(err error) map[string]string {
	msgs := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		msgs["form"] = "Please check the form and try again."
		return msgs
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "email", "browseremail":
			msgs[field] = "Please enter a valid email address."
		default:
			msgs[field] = "Please fill out this field."
		}
	}
	return msgs
}
