// Package auth implements the bearer-token pipeline: issuing and validating
// signed tokens, resolving the caller's identity for each request and
// rejecting unauthenticated calls to protected routes.
//
// Tokens are stateless HS256 JWTs. There is no server-side session or
// revocation list: a token is valid until its exp claim passes, so a leaked
// token cannot be withdrawn before then.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
)

// Claims binds a user id to the registered exp/iat claims.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenHandler issues and validates tokens. It holds no mutable state after
// construction and is safe for concurrent use.
type TokenHandler struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

type Option func(*TokenHandler)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *TokenHandler) { h.now = now }
}

func NewTokenHandler(cfg config.AuthConfig, opts ...Option) (*TokenHandler, error) {
	if len(cfg.Secret) < config.MinSecretLength {
		return nil, fmt.Errorf("token handler: signing secret must be at least %d bytes", config.MinSecretLength)
	}
	if cfg.Lifetime <= 0 {
		return nil, errors.New("token handler: lifetime must be positive")
	}
	h := &TokenHandler{
		secret:   append([]byte(nil), cfg.Secret...),
		lifetime: cfg.Lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(h.now),
	)
	return h, nil
}

// Issue mints a token for u that expires one lifetime from now.
func (h *TokenHandler) Issue(u *entity.User) (string, error) {
	now := h.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.lifetime)),
		},
	})
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate returns the user id carried by tokenString when its signature is
// valid and it has not expired. Any other outcome reports false and the cause
// is dropped.
func (h *TokenHandler) Validate(tokenString string) (int64, bool) {
	if tokenString == "" {
		return 0, false
	}
	claims := &Claims{}
	token, err := h.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID <= 0 {
		return 0, false
	}
	return claims.UserID, true
}
