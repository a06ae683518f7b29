package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/ports"
)

const defaultIntrospectionTimeout = 10 * time.Second

// IntrospectionVerifier validates tokens by asking a remote authority whether
// they are currently active. Every verification is one outbound call: no
// caching, no retry, so the answer always reflects current token state.
type IntrospectionVerifier struct {
	client      *resty.Client
	url         string
	userIDClaim string
	logger      zerolog.Logger
}

// NewIntrospectionVerifier builds a verifier for the given introspection
// endpoint. serviceToken is the gateway's own credential for that endpoint,
// distinct from the caller tokens it introspects.
func NewIntrospectionVerifier(url, serviceToken, userIDClaim string, timeout time.Duration, logger zerolog.Logger) *IntrospectionVerifier {
	if timeout <= 0 {
		timeout = defaultIntrospectionTimeout
	}
	cli := resty.New().
		SetTimeout(timeout).
		SetAuthToken(serviceToken).
		SetHeader("Content-Type", "application/json")

	return &IntrospectionVerifier{client: cli, url: url, userIDClaim: userIDClaim, logger: logger}
}

// Verify posts {"token": t} to the introspection endpoint. Transport failures
// and non-200 answers mean "we don't know" (Upstream rejection); only an
// explicit active=false means "we know, it's bad" (InvalidToken).
func (v *IntrospectionVerifier) Verify(ctx context.Context, token string) (*ports.TokenClaims, error) {
	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		Post(v.url)
	if err != nil {
		v.logger.Error().Err(err).Str("url", v.url).Msg("token introspection request failed")
		return nil, domain.NewRejectionCause(domain.RejectionUpstream, "token introspection endpoint unreachable", err)
	}
	if resp.StatusCode() != 200 {
		v.logger.Error().Int("status", resp.StatusCode()).Str("url", v.url).
			Str("body", resp.String()).Msg("token introspection endpoint returned an error")
		return nil, domain.NewRejection(domain.RejectionUpstream,
			fmt.Sprintf("token introspection endpoint returned %d", resp.StatusCode()))
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		v.logger.Error().Err(err).Msg("token introspection response is not a JSON object")
		return nil, domain.NewRejectionCause(domain.RejectionUpstream, "malformed introspection response", err)
	}

	rawActive, present := body["active"]
	if !present {
		v.logger.Error().Str("url", v.url).Msg("token introspection response is missing the active field")
		return nil, domain.NewRejection(domain.RejectionUpstream, "malformed introspection response")
	}
	var active bool
	if err := json.Unmarshal(rawActive, &active); err != nil {
		v.logger.Error().Err(err).Str("url", v.url).Msg("token introspection active field is not a boolean")
		return nil, domain.NewRejectionCause(domain.RejectionUpstream, "malformed introspection response", err)
	}
	if !active {
		return nil, domain.NewRejection(domain.RejectionInvalidToken, "token invalid or expired")
	}

	var userID string
	if raw, present := body[v.userIDClaim]; present {
		_ = json.Unmarshal(raw, &userID)
	}

	// The introspection response carries no separate subject claim; the user
	// id doubles as both.
	return &ports.TokenClaims{Subject: userID, UserID: userID}, nil
}
