package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/models"
	"assetman/api/internal/security"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth-token"

const identityKey = "current_identity"

// Identity is the request-scoped view of a verified session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   models.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.UserRoleAdmin
}

// Session resolves the current user from the session cookie, falling back to
// a bearer token for API clients. It never aborts: an absent or invalid token
// just leaves the request anonymous. Pure token inspection, no store access.
func Session(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := security.ParseSessionToken(token, jwtSecret)
		if err != nil {
			// Expired, forged and malformed all mean the same thing here.
			c.Next()
			return
		}

		c.Set(identityKey, Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   models.UserRole(claims.Role),
		})
		c.Next()
	}
}

// CurrentIdentity returns the resolved identity, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := val.(Identity)
	return identity, ok
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
