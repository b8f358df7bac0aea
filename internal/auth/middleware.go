package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticator verifies bearer tokens on protected routes.
type Authenticator struct {
	Issuer  *Issuer
	Revoker Revoker
	Logger  *logger.Logger
}

func NewAuthenticator(issuer *Issuer, revoker Revoker, log *logger.Logger) *Authenticator {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &Authenticator{Issuer: issuer, Revoker: revoker, Logger: log}
}

// Verify resolves a raw token to its claims, rejecting revoked tokens.
func (a *Authenticator) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.Issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := a.Revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errors.Mark(errors.New("token has been revoked"), models.ErrUnauthenticated)
	}
	return claims, nil
}

// Middleware rejects requests without a valid token and stores the claims in
// the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractTokenFromRequest(r)
		if err != nil {
			utils.WriteError(w, a.Logger, "AUTH", err)
			return
		}

		claims, err := a.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrUnauthenticated) {
				a.Logger.LogSecurity("INVALID_TOKEN", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
				// Keep the verification detail out of the response.
				err = errors.Mark(errors.New("Invalid or expired token"), models.ErrUnauthenticated)
			}
			utils.WriteError(w, a.Logger, "AUTH", err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole only lets authenticated callers with the given role through. It
// must run after Middleware.
func (a *Authenticator) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				utils.WriteError(w, a.Logger, "AUTH", errors.Mark(errors.New("Authentication required"), models.ErrUnauthenticated))
				return
			}
			if claims.Role != role {
				a.Logger.LogSecurity("FORBIDDEN", fmt.Sprintf("customer %s with role %s denied %s %s", claims.Subject, claims.Role, r.Method, r.URL.Path))
				utils.WriteError(w, a.Logger, "AUTH", errors.Mark(errors.Newf("%s access required", role), models.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFrom returns the verified claims, or nil on unauthenticated requests.
func ClaimsFrom(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// CustomerID returns the authenticated customer's id, or 0.
func CustomerID(ctx context.Context) int64 {
	claims := ClaimsFrom(ctx)
	if claims == nil {
		return 0
	}
	id, _ := claims.CustomerID()
	return id
}

// WithClaims is used by tests and internal callers to build an authenticated context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
