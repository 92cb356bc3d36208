package storage

import "context"

// TokenStorage stores the bearer token supplied by an external identity provider.
// The token is opaque to the client.
type TokenStorage interface {
	// SaveToken stores the token replacing the previous one
	SaveToken(ctx context.Context, token string) error

	// GetToken returns ErrTokenNotFound if no token is stored
	GetToken(ctx context.Context) (string, error)

	// DeleteToken removes stored token
	DeleteToken(ctx context.Context) error
}
