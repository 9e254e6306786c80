package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/apperror"
)

// Visibility is attached to each route when it is registered.
type Visibility int

const (
	// Protected routes require a resolved identity. It is the zero value.
	Protected Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "protected"
}

// Authorize guards a single route. Public routes always pass; protected
// routes pass only when IdentityMiddleware attached a user, otherwise the
// request ends with 401 {"message":"Unauthorized"} and next never runs.
func Authorize(v Visibility, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if v == Public {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				apperror.Write(w, logger, apperror.NewUnauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
