package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// contextKey is the type of the keys stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey   = contextKey("logger")
	userIDKey      = contextKey("userID")
	identityCtxKey = contextKey("identity")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetIdentityFromContext returns the verified identity claims of the caller.
func GetIdentityFromContext(c *gin.Context) (domain.IdentityProfile, bool) {
	profile, ok := c.Request.Context().Value(identityCtxKey).(domain.IdentityProfile)
	return profile, ok
}
