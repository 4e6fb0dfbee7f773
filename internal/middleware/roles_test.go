package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/models"
)

func rolesRouter() *gin.Engine {
	router := gin.New()
	router.Use(Session(testSecret))
	router.GET("/me", RequireIdentity(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/admin", RequireRoles(models.UserRoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRequireIdentity(t *testing.T) {
	router := rolesRouter()

	rec := requestPath(t, router, "/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	token := issueTestToken(t, models.UserRoleUser, time.Hour)
	rec = requestPath(t, router, "/me", token)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated: status = %d, want 200", rec.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	router := rolesRouter()

	rec := requestPath(t, router, "/admin", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	userToken := issueTestToken(t, models.UserRoleUser, time.Hour)
	rec = requestPath(t, router, "/admin", userToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user role: status = %d, want 403", rec.Code)
	}

	adminToken := issueTestToken(t, models.UserRoleAdmin, time.Hour)
	rec = requestPath(t, router, "/admin", adminToken)
	if rec.Code != http.StatusOK {
		t.Errorf("admin role: status = %d, want 200", rec.Code)
	}
}
