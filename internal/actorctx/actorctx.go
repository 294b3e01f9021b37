package actorctx

import (
	"context"

	"github.com/geocoder89/pawhub/internal/auth"
)

type ctxKey struct{}

// WithIdentity stores the verified identity on a request context so code
// below the HTTP layer can read it without gin.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(auth.Identity)

	return v, ok && v.Email != ""
}
