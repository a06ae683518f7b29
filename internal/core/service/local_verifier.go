package service

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/ports"
)

// LocalVerifier validates self-contained HS256 tokens against a shared
// secret. The user id is read from a deployment-configured claim name, since
// identity providers differ on where they put it (sub, email, preferred_username).
type LocalVerifier struct {
	secret      []byte
	userIDClaim string
}

func NewLocalVerifier(secret, userIDClaim string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret), userIDClaim: userIDClaim}
}

// Verify parses and validates the token. Every structural, signature, or
// expiry failure surfaces as a single InvalidToken rejection; the caller
// treats them all the same way.
func (v *LocalVerifier) Verify(_ context.Context, token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !tkn.Valid {
		reason := "token is invalid"
		if err != nil {
			reason = err.Error()
		}
		return nil, domain.NewRejectionCause(domain.RejectionInvalidToken, reason, err)
	}

	subject, _ := claims.GetSubject()
	userID, _ := claims[v.userIDClaim].(string)

	return &ports.TokenClaims{Subject: subject, UserID: userID}, nil
}
