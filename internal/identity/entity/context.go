package entity

import "context"

type authKey struct{}

// Auth carries the authenticated session identity through a request context.
type Auth struct {
	UserID       int64
	Username     string
	Email        string
	SessionToken string // raw client-held token, not the stored hash
}

// SetAuth stores the authenticated identity on the context.
func SetAuth(ctx context.Context, auth Auth) context.Context {
	return context.WithValue(ctx, authKey{}, auth)
}

// GetAuth returns the authenticated identity, or nil when the request is
// anonymous.
func GetAuth(ctx context.Context) *Auth {
	if auth, ok := ctx.Value(authKey{}).(Auth); ok {
		return &auth
	}
	return nil
}
