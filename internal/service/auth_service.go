package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"assetman/api/internal/config"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the user repository the auth flow needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type AuthService struct {
	users UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  models.User
}

// Login resolves credentials to a signed session token. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials, and the
// unknown-email path still pays for a hash comparison so the two are not
// separable by timing.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.CompareDummyPassword(input.Password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := security.IssueSessionToken(
		s.cfg.Security.JWTSecret,
		s.cfg.Security.JWTIssuer,
		user,
		s.cfg.Security.SessionTTL,
	)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Debug().Str("user_id", user.ID).Msg("session issued")

	return LoginResult{Token: token, User: user}, nil
}
