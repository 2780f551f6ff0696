// Package service contains application services for authentication, notes and tags.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/limiter"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// AuthService defines registration, authentication and token-based identity resolution.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, name, username, password string) (model.User, error)
	// Authenticate returns the user when credentials match, nil otherwise.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	// LoginWithIP applies rate-limiting, authenticates and issues an access token.
	LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, error)
	// CurrentUser resolves a bearer token to its user.
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type AuthServiceImpl struct {
	users repository.UserRepository
	creds *Credentials
	lim   limiter.Limiter
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService constructs AuthService with required dependencies. A nil limiter disables rate limiting.
func NewAuthService(users repository.UserRepository, creds *Credentials, lim limiter.Limiter) *AuthServiceImpl {
	if lim == nil {
		lim = limiter.Nop{}
	}
	return &AuthServiceImpl{users: users, creds: creds, lim: lim}
}

// Register creates a user after checking that the username is free.
func (s *AuthServiceImpl) Register(ctx context.Context, name, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: empty username/password", errs.ErrInvalidArgument)
	}

	switch _, err := s.users.GetByUsername(ctx, username); {
	case err == nil:
		return model.User{}, fmt.Errorf("username %q: %w", username, errs.ErrAlreadyExists)
	case !errors.Is(err, errs.ErrNotFound):
		return model.User{}, err
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	u := &model.User{
		ID:       uid,
		Name:     strings.TrimSpace(name),
		Username: username,
		PwdHash:  hash,
	}
	// the repo still reports ErrAlreadyExists if a concurrent registration wins
	if err := s.users.Create(ctx, u); err != nil {
		return model.User{}, err
	}
	return *u, nil
}

// Authenticate looks the user up and verifies the password. Unknown user and
// wrong password both yield nil, nil.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !s.creds.VerifyPassword(password, u.PwdHash) {
		return nil, nil
	}
	return u, nil
}

// LoginWithIP authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, err
	}
	if !allowed {
		return model.Tokens{}, errs.ErrRateLimited
	}

	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return model.Tokens{}, err
	}
	if u == nil {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, errs.ErrRateLimited
		}
		return model.Tokens{}, errs.ErrUnauthorized
	}

	// best-effort
	_ = s.lim.Success(ctx, username, ipHash)

	access, exp, err := s.creds.IssueToken(map[string]any{"sub": u.Username}, 0)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: access, TokenType: model.TokenTypeBearer, ExpiresAt: exp}, nil
}

// CurrentUser delegates to the credential service.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	return s.creds.CurrentUser(ctx, token)
}
