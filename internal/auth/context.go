package auth

import (
	"context"
	"time"
)

// TokenSink is the transport capability that delivers a freshly issued token
// to the caller, typically as a cookie.
type TokenSink interface {
	SetSessionToken(token string, maxAge time.Duration)
}

type contextKey string

const (
	identityKey  contextKey = "identity"
	tokenSinkKey contextKey = "token_sink"
)

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity resolved for this request. Requests
// that bypassed authentication carry none.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// RequireIdentity is IdentityFromContext with the failure callers return.
func RequireIdentity(ctx context.Context) (Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, ErrInvalidOrExpired
	}
	return id, nil
}

func WithTokenSink(ctx context.Context, sink TokenSink) context.Context {
	return context.WithValue(ctx, tokenSinkKey, sink)
}

func TokenSinkFromContext(ctx context.Context) (TokenSink, bool) {
	sink, ok := ctx.Value(tokenSinkKey).(TokenSink)
	return sink, ok && sink != nil
}
