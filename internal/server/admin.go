package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// adminAuth accepts "Authorization: Bearer <token>" matching the configured
// admin token.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			s.logger.Warn("Rejected admin request", "client", s.hashIP(c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) HandleStats(c *gin.Context) {
	if s.tracker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking is disabled"})
		return
	}
	stats, err := s.tracker.Stats(c.Request.Context(), s.now())
	if err != nil {
		s.logger.Error("Error loading admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":    stats,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) HandleCleanup(c *gin.Context) {
	if s.tracker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking is disabled"})
		return
	}
	n, err := s.tracker.Cleanup(c.Request.Context(), s.now())
	if err != nil {
		s.logger.Error("Error cleaning up old visitor data", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
