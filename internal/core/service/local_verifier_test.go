package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestLocalVerifier_ValidToken(t *testing.T) {
	v := NewLocalVerifier("secret", "email")
	signed := signToken(t, "secret", jwt.MapClaims{
		"sub":   "auth0|12345",
		"email": "alice@example.org",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "auth0|12345" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.UserID != "alice@example.org" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
}

func TestLocalVerifier_MissingUserIDClaim(t *testing.T) {
	v := NewLocalVerifier("secret", "email")
	signed := signToken(t, "secret", jwt.MapClaims{"sub": "auth0|12345"})

	claims, err := v.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "" {
		t.Fatalf("expected empty user id, got %q", claims.UserID)
	}
}

func TestLocalVerifier_WrongSecret(t *testing.T) {
	v := NewLocalVerifier("secret", "email")
	signed := signToken(t, "other-secret", jwt.MapClaims{"sub": "auth0|12345"})

	_, err := v.Verify(context.Background(), signed)
	assertInvalidToken(t, err)
}

func TestLocalVerifier_ExpiredToken(t *testing.T) {
	v := NewLocalVerifier("secret", "email")
	signed := signToken(t, "secret", jwt.MapClaims{
		"sub": "auth0|12345",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), signed)
	assertInvalidToken(t, err)
}

func TestLocalVerifier_MalformedToken(t *testing.T) {
	v := NewLocalVerifier("secret", "email")

	_, err := v.Verify(context.Background(), "not-a-token")
	assertInvalidToken(t, err)
}

func TestLocalVerifier_WrongAlgorithm(t *testing.T) {
	v := NewLocalVerifier("secret", "email")
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "auth0|12345"})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, verr := v.Verify(context.Background(), signed)
	assertInvalidToken(t, verr)
}

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	var rejection *domain.Rejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected *domain.Rejection, got %T: %v", err, err)
	}
	if rejection.Kind != domain.RejectionInvalidToken {
		t.Fatalf("expected invalid_token, got %s", rejection.Kind)
	}
}
