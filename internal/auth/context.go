package auth

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
)

type identityKey struct{}

// WithIdentity attaches the resolved caller to ctx.
func WithIdentity(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, identityKey{}, u)
}

// IdentityFromContext returns the caller resolved for this request, if any.
func IdentityFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(identityKey{}).(*entity.User)
	return u, ok && u != nil
}
