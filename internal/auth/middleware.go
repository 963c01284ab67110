package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextIsStaff  = "is_staff"
)

// RequireAuth rejects requests without a valid bearer token
func (s *TokenService) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.Parse(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextIsStaff, claims.IsStaff)
		c.Next()
	}
}

// OptionalAuth sets user context when a valid token is present but never
// rejects the request. Anonymous users may still read public lists.
func (s *TokenService) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if claims, err := s.Parse(header); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUsername, claims.Username)
				c.Set(ContextIsStaff, claims.IsStaff)
			}
		}
		c.Next()
	}
}

// RequireStaff rejects requests from non-staff users. Must run after
// RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsStaff) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Staff access required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id from the gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.GetString(ContextUserID)
	if idStr == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
