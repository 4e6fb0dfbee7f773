package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPrefix   = "/dashboard/admin"
)

// Guard applies the page-level access rules, first match wins:
//
//  1. public path            -> allow
//  2. anonymous on dashboard -> redirect to /login
//  3. non-admin on admin     -> redirect to /dashboard
//  4. otherwise              -> allow
//
// It is advisory: page handlers still re-check identity and role themselves.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if isPublicPath(path) {
			c.Next()
			return
		}

		identity, ok := CurrentIdentity(c)

		if !ok && strings.HasPrefix(path, DashboardPath) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		if ok && strings.HasPrefix(path, AdminPrefix) && !identity.IsAdmin() {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

// API routes, static assets and the favicon are exempt; they enforce their
// own authentication with status codes rather than redirects.
func isPublicPath(path string) bool {
	switch path {
	case "/", LoginPath, "/favicon.ico", "/healthz":
		return true
	}
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/")
}
