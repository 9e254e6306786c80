package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/repo"
)

type TokenValidator interface {
	Validate(token string) (int64, bool)
}

// IdentityLookup loads a user by id; it returns userrepo.ErrNotFound when
// the id no longer exists.
type IdentityLookup interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

// IdentityMiddleware resolves the bearer token of every request into a user
// and attaches it to the request context. It never rejects: a missing,
// malformed, expired or tampered token and an unknown user all leave the
// context empty, and Authorize decides what that means for the route.
func IdentityMiddleware(tokens TokenValidator, users IdentityLookup, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			id, ok := tokens.Validate(token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.FindByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, userrepo.ErrNotFound) && logger != nil {
					logger.Warnw("identity lookup failed", "user_id", id, "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), u)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
