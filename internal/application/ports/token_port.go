package ports

import "context"

// TokenIdentity the identity carried by a verified bearer token.
type TokenIdentity struct {
	UserID string
	Email  string
}

// TokenVerifier validates a bearer token issued by the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenIdentity, error)
}
