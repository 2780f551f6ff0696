package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/limiter"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
	"github.com/gofrs/uuid/v5"
)

type fakeUsers struct {
	byName map[string]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byName == nil {
		f.byName = map[string]*model.User{}
	}
	if _, exists := f.byName[u.Username]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byName[u.Username] = &cpy
	return nil
}
func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

func newCreds(t *testing.T, users repository.UserRepository, key string) *Credentials {
	t.Helper()
	c, err := NewCredentials(users, TokenConfig{SignKey: []byte(key), AccessTTL: 30 * time.Minute, Leeway: time.Second})
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}
	return c
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byName: map[string]*model.User{}}
	s := NewAuthService(users, newCreds(t, users, "k"), nil)
	ctx := context.Background()

	if _, err := s.Register(ctx, "A", "", ""); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("want validation error on empty username/password, got %v", err)
	}

	u, err := s.Register(ctx, "Alice", "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == uuid.Nil || u.Name != "Alice" || u.Username != "alice" {
		t.Fatalf("bad user: %+v", u)
	}
	if u.PwdHash == "" || u.PwdHash == "pw1" {
		t.Fatalf("password not hashed: %q", u.PwdHash)
	}

	if _, err := s.Register(ctx, "Alice2", "alice", "pw2"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on duplicate username, got %v", err)
	}

	users.createErr = errors.New("boom")
	if _, err := s.Register(ctx, "Bob", "bob", "pwd"); err == nil {
		t.Fatalf("want propagated repo error")
	}
	users.createErr = nil

	users.getErr = errors.New("db down")
	if _, err := s.Register(ctx, "Carl", "carl", "pwd"); err == nil || errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want lookup error, got %v", err)
	}
}

func TestAuth_Authenticate(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{byName: map[string]*model.User{}}
	s := NewAuthService(users, newCreds(t, users, "k"), nil)
	ctx := context.Background()

	if _, err := s.Register(ctx, "Alice", "alice", "pw1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := s.Authenticate(ctx, "alice", "pw1")
	if err != nil || u == nil || u.Username != "alice" {
		t.Fatalf("Authenticate ok: u=%v err=%v", u, err)
	}
	if u, err := s.Authenticate(ctx, "alice", "nope"); err != nil || u != nil {
		t.Fatalf("wrong password must be nil,nil: u=%v err=%v", u, err)
	}
	if u, err := s.Authenticate(ctx, "ghost", "pw1"); err != nil || u != nil {
		t.Fatalf("unknown user must be nil,nil: u=%v err=%v", u, err)
	}

	users.getErr = errors.New("db down")
	if _, err := s.Authenticate(ctx, "alice", "pw1"); err == nil {
		t.Fatalf("want storage error")
	}
}

func TestAuth_LoginWithIP_RateLimiterAndCreds(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	lim := &fakeLimiter{allowOK: true}
	creds := newCreds(t, users, "secret")
	s := NewAuthService(users, creds, lim)
	ctx := context.Background()
	if _, err := s.Register(ctx, "Alice", "alice", "correct"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	lim.allowErr = errors.New("lim-err")
	if _, err := s.LoginWithIP(ctx, "alice", "correct", "1.2.3.4"); err == nil {
		t.Fatalf("want limiter error propagate")
	}
	lim.allowErr = nil

	lim.allowOK = false
	if _, err := s.LoginWithIP(ctx, "alice", "correct", "1.2.3.4"); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	lim.allowOK = true

	if _, err := s.LoginWithIP(ctx, "nope", "x", ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on missing user, got %v", err)
	}

	lim.failBlocked = true
	if _, err := s.LoginWithIP(ctx, "alice", "wrong", ""); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited on blocked after failure, got %v", err)
	}

	lim.failBlocked = false
	if _, err := s.LoginWithIP(ctx, "alice", "wrong", ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on wrong password, got %v", err)
	}

	tok, err := s.LoginWithIP(ctx, "alice", "correct", "127.0.0.1")
	if err != nil {
		t.Fatalf("LoginWithIP success: %v", err)
	}
	if tok.AccessToken == "" || tok.TokenType != "bearer" || tok.ExpiresAt.Before(time.Now()) {
		t.Fatalf("bad token: %+v", tok)
	}
	if lim.successCalls == 0 {
		t.Fatalf("expected Success() to be called")
	}

	u, err := s.CurrentUser(ctx, tok.AccessToken)
	if err != nil || u.Username != "alice" {
		t.Fatalf("CurrentUser: u=%v err=%v", u, err)
	}
}
