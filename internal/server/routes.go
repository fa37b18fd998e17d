package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

func (s *Server) routes(renderer render.HTMLRender, static http.FileSystem) *gin.Engine {
	r := gin.Default()
	r.HTMLRender = renderer

	r.Use(cacheControl())
	r.Use(s.visitorTracking())

	if static != nil {
		r.StaticFS("/static", static)
		r.GET("/robots.txt", func(c *gin.Context) {
			c.FileFromFS("robots.txt", static)
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/", s.HandleIndex)

	// Overlays
	r.GET("/projects/:index", s.HandleOpenProject)
	r.GET("/blogs/:index", s.HandleOpenBlog)
	r.POST("/overlay/close", s.HandleCloseOverlay)

	// HTMX contact form
	r.GET("/contact", s.HandleContactForm)
	r.POST("/contact", s.HandleContactSubmit)

	r.GET("/privacy", s.HandlePrivacy)

	if s.adminToken != "" {
		admin := r.Group("/admin/api")
		admin.Use(s.adminAuth())
		admin.GET("/stats", s.HandleStats)
		admin.POST("/cleanup", s.HandleCleanup)
	}

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	return r
}

func cacheControl() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/static/") {
			c.Header("Cache-Control", "public, max-age=86400")
		} else {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		c.Next()
	}
}
