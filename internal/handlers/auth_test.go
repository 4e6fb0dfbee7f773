package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assetman/api/internal/config"
	"assetman/api/internal/middleware"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/security"
	"assetman/api/internal/service"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserStore struct {
	byEmail map[string]models.User
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:  testSecret,
			JWTIssuer:  "asset-manager",
			SessionTTL: 7 * 24 * time.Hour,
		},
	}
}

func authTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	adminHash, err := security.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	store := &fakeUserStore{byEmail: map[string]models.User{
		"admin@example.com": {
			ID:           "usr_admin",
			Name:         "Admin User",
			Email:        "admin@example.com",
			PasswordHash: adminHash,
			Role:         models.UserRoleAdmin,
		},
	}}

	cfg := testConfig()
	h := HandlerSet{
		log:  zerolog.Nop(),
		cfg:  cfg,
		auth: service.NewAuthService(store, cfg, zerolog.Nop()),
	}

	router := gin.New()
	router.Use(middleware.Session(cfg.Security.JWTSecret))
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/logout", h.Logout)
	router.GET("/api/auth/me", middleware.RequireIdentity(), h.Me)
	return router
}

func postLogin(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	router := authTestRouter(t)

	rec := postLogin(t, router, `{"email":"admin@example.com","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			UserID string `json:"userId"`
			Email  string `json:"email"`
			Name   string `json:"name"`
			Role   string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.User.Role != "admin" {
		t.Errorf("user.role = %q, want admin", body.User.Role)
	}
	if body.User.Email != "admin@example.com" {
		t.Errorf("user.email = %q", body.User.Email)
	}

	// Token must round-trip to the same claims.
	claims, err := security.ParseSessionToken(body.Token, testSecret)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if claims.UserID != "usr_admin" || claims.Role != "admin" || claims.Name != "Admin User" {
		t.Errorf("unexpected claims %+v", claims)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("session cookie not set")
	}
	if cookie.Value != body.Token {
		t.Errorf("cookie carries a different token than the body")
	}
	if !cookie.HttpOnly {
		t.Errorf("cookie not HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge != 604800 {
		t.Errorf("cookie max-age = %d, want 604800", cookie.MaxAge)
	}
	if cookie.Secure {
		t.Errorf("cookie Secure set outside production")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router := authTestRouter(t)

	rec := postLogin(t, router, `{"email":"admin@example.com","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, "Invalid email or password") {
		t.Errorf("body = %s", got)
	}
}

func TestLogin_NonEnumeration(t *testing.T) {
	router := authTestRouter(t)

	wrongPassword := postLogin(t, router, `{"email":"admin@example.com","password":"wrong-password"}`)
	unknownEmail := postLogin(t, router, `{"email":"nobody@example.com","password":"wrong-password"}`)

	if wrongPassword.Code != unknownEmail.Code {
		t.Errorf("status differs: %d vs %d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("body differs: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLogin_Validation(t *testing.T) {
	router := authTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty", `{}`},
		{"bad email", `{"email":"not-an-email","password":"password123"}`},
		{"short password", `{"email":"admin@example.com","password":"abc"}`},
		{"not json", `email=admin`},
	}
	for _, tc := range cases {
		rec := postLogin(t, router, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "details") {
			t.Errorf("%s: no validation details in %s", tc.name, rec.Body.String())
		}
	}
}

func TestLogin_NormalizesEmail(t *testing.T) {
	router := authTestRouter(t)

	rec := postLogin(t, router, `{"email":"Admin@Example.com","password":"password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	router := authTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("clearing cookie not set")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestMe(t *testing.T) {
	router := authTestRouter(t)

	login := postLogin(t, router, `{"email":"admin@example.com","password":"password123"}`)
	cookie := sessionCookie(login)
	if cookie == nil {
		t.Fatalf("no session cookie from login")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"userId":"usr_admin"`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	// Anonymous request is rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous /me: status = %d, want 401", rec.Code)
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}
