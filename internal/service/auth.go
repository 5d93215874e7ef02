// Package service holds the business operations that sit between HTTP
// handlers and repositories.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ozaiithejava/portfolio-api/internal/model"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/utils"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminFinder is the slice of the admin repository the auth service needs.
type AdminFinder interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	Token     string
	Username  string
	AdminID   uint64
	ExpiresAt time.Time
}

// AuthService verifies admin credentials and signs access tokens.  The
// secret and TTL come from configuration; nothing is persisted.
type AuthService struct {
	admins AdminFinder
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(admins AdminFinder, secret string, ttl time.Duration) *AuthService {
	return &AuthService{admins: admins, secret: secret, ttl: ttl, now: time.Now}
}

// Login checks username/password and returns a signed token on success.
// Empty strings are valid attempts that simply fail to match.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, err := utils.NewAccessToken(s.secret, a.ID, a.Username, s.ttl, s.now())
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: tok.Token, Username: a.Username, AdminID: a.ID, ExpiresAt: tok.Exp}, nil
}

// Verify parses a bearer token issued by Login.
func (s *AuthService) Verify(raw string) (utils.AdminClaims, error) {
	return utils.ParseAccessToken(s.secret, raw, s.now())
}
