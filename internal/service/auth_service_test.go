package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"assetman/api/internal/config"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/security"
)

type stubUserStore struct {
	user models.User
	err  error
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	if email != s.user.Email {
		return models.User{}, repository.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	if id != s.user.ID {
		return models.User{}, repository.ErrUserNotFound
	}
	return s.user, nil
}

func authServiceForTest(t *testing.T, password string) (*AuthService, models.User) {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{
		ID:           "usr_1",
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: hash,
		Role:         models.UserRoleUser,
	}
	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			JWTSecret:  "service-test-secret",
			JWTIssuer:  "asset-manager",
			SessionTTL: time.Hour,
		},
	}
	return NewAuthService(&stubUserStore{user: user}, cfg, zerolog.Nop()), user
}

func TestAuthServiceLogin(t *testing.T) {
	svc, user := authServiceForTest(t, "correct-horse")

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != user.ID {
		t.Errorf("user ID = %q, want %q", result.User.ID, user.ID)
	}

	claims, err := security.ParseSessionToken(result.Token, "service-test-secret")
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != string(user.Role) {
		t.Errorf("claims %+v do not match user", claims)
	}
}

func TestAuthServiceLogin_EmailNormalized(t *testing.T) {
	svc, _ := authServiceForTest(t, "correct-horse")

	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "  Jane@Example.COM ",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("login with unnormalized email: %v", err)
	}
}

func TestAuthServiceLogin_InvalidCredentials(t *testing.T) {
	svc, _ := authServiceForTest(t, "correct-horse")

	// Wrong password and unknown email are indistinguishable.
	_, wrongPassword := svc.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	_, unknownEmail := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "wrong",
	})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", unknownEmail)
	}
}

func TestAuthServiceLogin_StoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	cfg := &config.AppConfig{
		Security: config.SecurityConfig{JWTSecret: "s", JWTIssuer: "asset-manager", SessionTTL: time.Hour},
	}
	svc := NewAuthService(&stubUserStore{err: storeErr}, cfg, zerolog.Nop())

	_, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "x"})
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("infrastructure error must not be reported as bad credentials")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}
