package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/biodatacommons/query-gateway/internal/core/domain"
	"github.com/biodatacommons/query-gateway/internal/core/ports"
)

// Gatekeeper is the request-level entry point: it verifies the bearer token,
// resolves the caller to a durable User record, and enforces the role set the
// target endpoint declared. It is stateless and safe for concurrent use.
type Gatekeeper struct {
	verifier ports.TokenVerifier
	users    ports.UserDirectory
	logger   zerolog.Logger
}

func NewGatekeeper(verifier ports.TokenVerifier, users ports.UserDirectory, logger zerolog.Logger) *Gatekeeper {
	return &Gatekeeper{verifier: verifier, users: users, logger: logger}
}

// Authenticate decides whether a request may proceed. On success it returns
// the identity the request runs under; on failure a *domain.Rejection.
// Unexpected failures are converted to ApplicationError so they never escape
// the gatekeeper boundary raw.
func (g *Gatekeeper) Authenticate(ctx context.Context, authorizationHeader string, requiredRoles []string) (identity *domain.AuthenticatedIdentity, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Msg("gatekeeper panic recovered")
			identity = nil
			err = domain.NewApplicationError("inner application error, please contact system admin", fmt.Sprintf("panic: %v", r))
		}
	}()

	token, rej := extractBearerToken(authorizationHeader)
	if rej != nil {
		return nil, rej
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		// Never log the raw token above debug level.
		g.logger.Debug().Str("token", token).Err(err).Msg("token verification failed")
		return nil, err
	}

	if claims.UserID == "" {
		g.logger.Error().Str("subject", claims.Subject).Msg("verified token carries no user id claim")
		return nil, domain.NewRejection(domain.RejectionUnauthenticated, "cannot extract user from token")
	}

	user, err := g.users.FindOrCreate(ctx, claims.Subject, claims.UserID)
	if err != nil {
		g.logger.Error().Err(err).Str("user_id", claims.UserID).Msg("user directory lookup failed")
		return nil, domain.NewApplicationError("inner application error, please contact system admin", err.Error())
	}

	if rej := checkRoles(user, requiredRoles); rej != nil {
		g.logger.Error().
			Str("user_id", user.UserID).
			Strs("user_roles", user.Roles).
			Strs("required_roles", requiredRoles).
			Msg("role restriction not satisfied")
		return nil, rej
	}

	g.logger.Info().Str("user_id", user.UserID).Msg("caller passed authentication and authorization")

	return &domain.AuthenticatedIdentity{
		UserID: user.UserID,
		Roles:  append([]string(nil), user.Roles...),
	}, nil
}

// extractBearerToken strips the bearer scheme from the Authorization header.
func extractBearerToken(header string) (string, *domain.Rejection) {
	if header == "" {
		return "", domain.NewRejection(domain.RejectionUnauthenticated, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.NewRejection(domain.RejectionUnauthenticated, "invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.NewRejection(domain.RejectionUnauthenticated, "missing authorization header")
	}
	return token, nil
}

// checkRoles requires every declared role to be present on the user. An empty
// requirement always passes.
func checkRoles(user *domain.User, requiredRoles []string) *domain.Rejection {
	if len(requiredRoles) == 0 {
		return nil
	}
	if len(user.Roles) == 0 {
		return domain.NewRejection(domain.RejectionForbidden, "user doesn't have a role")
	}
	for _, role := range requiredRoles {
		if !user.HasRole(role) {
			return domain.NewRejection(domain.RejectionForbidden, "role restriction not satisfied")
		}
	}
	return nil
}
