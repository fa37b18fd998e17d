package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/store"
)

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("failed to generate token: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// hashIP is stable per IP for the life of the process and never reversible.
func (s *Server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// visitorTracking records full page views that rendered successfully.
// Assets, fragments, redirects, admin pages and visitors sending Do Not
// Track are skipped.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.tracker == nil || !s.shouldTrack(c) {
			c.Next()
			return
		}

		visit := store.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      c.Request.URL.Path,
			Timestamp: s.now(),
		}
		c.Next()

		if c.Writer.Status() != http.StatusOK || !strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "text/html") {
			return
		}
		go func() {
			if err := s.tracker.RecordVisit(context.Background(), visit); err != nil {
				s.logger.Error("Error recording visitor", "error", err)
			}
		}()
	}
}

func (s *Server) shouldTrack(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet || isHTMX(c) {
		return false
	}
	if c.GetHeader("DNT") == "1" {
		return false
	}
	path := c.Request.URL.Path
	for _, prefix := range []string{"/static/", "/admin/", "/favicon", "/privacy", "/health", "/robots.txt", "/contact"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func (s *Server) cleanupVisitors() {
	n, err := s.tracker.Cleanup(s.baseCtx, s.now())
	if err != nil {
		s.logger.Error("Error cleaning up old visitor data", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("Privacy cleanup removed old visitor records", "count", n, "retention_months", store.RetentionMonths)
	}
}
