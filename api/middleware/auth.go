package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuseats/campuseats-backend/api/responses"
	pkgAuth "github.com/campuseats/campuseats-backend/pkg/auth"
	"github.com/campuseats/campuseats-backend/pkg/auth/session"
	"github.com/campuseats/campuseats-backend/pkg/config"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/logger"
)

// bearerToken pulls the token out of the Authorization header, with or
// without the Bearer prefix.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// Auth validates a bearer token and seeds the request context with the
// claims. The role placed in context is the effective role, so superusers
// pass admin checks without a separate role value.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	authenticate := func(r *http.Request) (*pkgAuth.AccessTokenClaims, error) {
		token := bearerToken(r)
		if token == "" {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
		}

		claims, err := pkgAuth.ParseAccessToken(cfg, token)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
		if claims.ID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
		}

		// Tokens stay cryptographically valid after logout; the Redis session
		// record is what revokes them.
		if verifier != nil {
			ok, err := verifier.HasSession(r.Context(), claims.ID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
			}
			if !ok {
				return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
			}
		}
		return claims, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			role := claims.EffectiveRole()
			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(role))
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
