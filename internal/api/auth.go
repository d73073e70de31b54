package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/service"
	"github.com/live-learn-hub-api/internal/validation"
)

const userContextKey = "user"

// authMiddleware resolves the session from the bearer token and X-User-ID header
func authMiddleware(users service.UserService, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("middleware", "auth").Logger()

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		userID := c.GetHeader("X-User-ID")
		if !strings.HasPrefix(header, "Bearer ") || !validation.IsValidUUID(userID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := users.ValidateSession(c.Request.Context(), userID, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to validate session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// requireEditor rejects sessions that may not change content
func requireEditor() gin.HandlerFunc {
	return requireRole(func(u *models.User) bool { return u.CanEdit() })
}

// requireAdmin rejects non-admin sessions
func requireAdmin() gin.HandlerFunc {
	return requireRole(func(u *models.User) bool { return u.Role == models.RoleAdmin })
}

func requireRole(allowed func(*models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !allowed(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated user, or nil on public routes
func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
