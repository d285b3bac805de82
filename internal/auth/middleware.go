package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workpulse/daily-task-tracker/internal/lifecycle"
	"github.com/workpulse/daily-task-tracker/internal/models"
	"github.com/workpulse/daily-task-tracker/pkg/auth"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity and role on the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing authentication token",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// ReviewerOnly restricts a route to the roles that may approve or
// reject tasks.
func ReviewerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !lifecycle.CanReview(CallerRole(c)) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Reviewer access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminOnly restricts a route to admins.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != models.UserRoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user id from the context.
func CallerID(c *gin.Context) uint {
	id, _ := c.Get("user_id")
	uid, _ := id.(uint)
	return uid
}

// CallerRole returns the authenticated role from the context.
func CallerRole(c *gin.Context) models.UserRole {
	role, _ := c.Get("role")
	r, _ := role.(models.UserRole)
	return r
}
