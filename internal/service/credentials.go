package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgcrypto "github.com/and161185/notekeeper/internal/crypto"
	"github.com/and161185/notekeeper/internal/errs"
	"github.com/and161185/notekeeper/internal/model"
	"github.com/and161185/notekeeper/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig carries the signing secret and algorithm injected at construction.
type TokenConfig struct {
	SignKey   []byte
	Algorithm string        // HS256, HS384 or HS512
	AccessTTL time.Duration // lifetime of issued access tokens
	Leeway    time.Duration // clock skew tolerated on expiry checks
}

// Credentials hashes passwords and issues/resolves signed access tokens.
type Credentials struct {
	users  repository.UserRepository
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// NewCredentials validates cfg and constructs the credential service.
func NewCredentials(users repository.UserRepository, cfg TokenConfig) (*Credentials, error) {
	if len(cfg.SignKey) == 0 {
		return nil, errors.New("credentials: empty signing key")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("credentials: unsupported algorithm %q", alg)
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("credentials: access ttl must be positive")
	}
	return &Credentials{
		users:  users,
		key:    cfg.SignKey,
		method: method,
		ttl:    cfg.AccessTTL,
		leeway: cfg.Leeway,
		now:    time.Now,
	}, nil
}

// HashPassword returns a salted one-way hash of password.
func (c *Credentials) HashPassword(password string) (string, error) {
	return pkgcrypto.HashPassword(password)
}

// VerifyPassword reports whether password produced hash.
func (c *Credentials) VerifyPassword(password, hash string) bool {
	return pkgcrypto.VerifyPassword(password, hash)
}

// IssueToken signs claims plus iat/exp. A non-positive ttl uses the configured access TTL.
func (c *Credentials) IssueToken(claims map[string]any, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now()
	exp := now.Add(ttl)

	mc := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(exp)

	signed, err := jwt.NewWithClaims(c.method, mc).SignedString(c.key)
	return signed, exp, err
}

// ResolveToken verifies signature, algorithm and expiry and requires a non-empty "sub".
// Every failure is reported as errs.ErrUnauthorized.
func (c *Credentials) ResolveToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", errs.ErrUnauthorized)
	}
	return claims, nil
}

// CurrentUser resolves token and loads the user named by its subject.
func (c *Credentials) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := c.ResolveToken(token)
	if err != nil {
		return nil, err
	}
	username, _ := claims.GetSubject()
	u, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", errs.ErrUnauthorized)
		}
		return nil, err
	}
	return u, nil
}
