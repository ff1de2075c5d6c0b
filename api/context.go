package api

import (
	"context"

	"github.com/mkifle/portfolio-backend/auth"
)

type keyType string

const (
	identityKey  keyType = "identity"
	requestIDKey keyType = "requestID"
)

// ctxWithIdentity adds the authenticated caller to the context
func ctxWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ctxGetIdentity retrieves the authenticated caller, if any
func ctxGetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

func ctxWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ctxGetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
