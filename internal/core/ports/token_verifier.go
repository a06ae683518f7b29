package ports

import "context"

// TokenClaims is the identity information extracted from a verified token.
// UserID may be empty when the token carried no value under the configured
// user-id claim; the gatekeeper decides what to do about that.
type TokenClaims struct {
	Subject string
	UserID  string
}

// TokenVerifier validates a bearer token and extracts its identity claims.
// Exactly one implementation is selected at startup from configuration;
// the choice never varies per request.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}
