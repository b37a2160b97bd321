package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atlashq/erp-core/internal/models"
)

const principalKey = "principal"

// authMiddleware resolves the principal from the configured identity header.
// Resolved principals are served from the TTL cache; a miss loads the user
// row. Password mechanics live at the gateway, not here.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(s.cfg.PrincipalHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity header"})
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid identity header"})
			return
		}

		user := s.cache.Get(userID)
		if user == nil {
			user, err = s.users.GetByID(userID)
			if err != nil {
				s.logger.Error("Failed to load principal", zap.Int64("user_id", userID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve principal"})
				return
			}
			if user != nil {
				s.cache.Set(user)
			}
		}

		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown or inactive principal"})
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// principal returns the authenticated user set by authMiddleware
func principal(c *gin.Context) *models.User {
	return c.MustGet(principalKey).(*models.User)
}
