package httpapi

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

type ctxKey string

const identityKey ctxKey = "nk.identity"

// WithIdentity stores the authenticated user in context.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the authenticated user from context.
func IdentityFromCtx(ctx context.Context) (model.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}
