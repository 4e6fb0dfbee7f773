package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/models"
)

func guardedRouter() *gin.Engine {
	router := gin.New()
	router.Use(Session(testSecret), Guard())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/", ok)
	router.GET("/login", ok)
	router.GET("/favicon.ico", ok)
	router.GET("/api/assets", ok)
	router.GET("/dashboard", ok)
	router.GET("/dashboard/assets", ok)
	router.GET("/dashboard/admin/users", ok)
	return router
}

func requestPath(t *testing.T, router *gin.Engine, path string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGuard_PublicPathsAllowAnonymous(t *testing.T) {
	router := guardedRouter()
	for _, path := range []string{"/", "/login", "/favicon.ico", "/api/assets"} {
		rec := requestPath(t, router, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestGuard_AnonymousDashboardRedirectsToLogin(t *testing.T) {
	router := guardedRouter()
	for _, path := range []string{"/dashboard", "/dashboard/assets", "/dashboard/admin/users"} {
		rec := requestPath(t, router, path, "")
		if rec.Code != http.StatusFound {
			t.Errorf("%s: status = %d, want 302", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("%s: redirect to %q, want %q", path, loc, LoginPath)
		}
	}
}

func TestGuard_NonAdminOnAdminPathRedirectsToDashboard(t *testing.T) {
	router := guardedRouter()
	token := issueTestToken(t, models.UserRoleUser, time.Hour)

	rec := requestPath(t, router, "/dashboard/admin/users", token)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != DashboardPath {
		t.Errorf("redirect to %q, want %q", loc, DashboardPath)
	}
}

func TestGuard_NonAdminAllowedOnDashboard(t *testing.T) {
	router := guardedRouter()
	token := issueTestToken(t, models.UserRoleUser, time.Hour)

	for _, path := range []string{"/dashboard", "/dashboard/assets"} {
		rec := requestPath(t, router, path, token)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestGuard_AdminAllowedEverywhere(t *testing.T) {
	router := guardedRouter()
	token := issueTestToken(t, models.UserRoleAdmin, time.Hour)

	for _, path := range []string{"/dashboard", "/dashboard/assets", "/dashboard/admin/users"} {
		rec := requestPath(t, router, path, token)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestGuard_ExpiredCookieTreatedAsAnonymous(t *testing.T) {
	router := guardedRouter()
	token := issueTestToken(t, models.UserRoleAdmin, -time.Minute)

	rec := requestPath(t, router, "/dashboard", token)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Errorf("redirect to %q, want %q", loc, LoginPath)
	}
}
