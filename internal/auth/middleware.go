package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ehsan18t/insight-desk-sub000/internal/telemetry"
	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// Middleware returns an HTTP middleware that authenticates API requests and
// attaches the tenant context for downstream handlers. Requests are rejected
// before any unit of work when the token is missing or invalid, when the
// claims do not form a valid tenant context, or when the organization is
// suspended.
func Middleware(verifier *Verifier, gate *OrgGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString := extractBearerToken(r)
			if tokenString == "" {
				log.Warn().Msg("Missing bearer token")
				reject(w, r, "missing_token", "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				log.Warn().Err(err).Msg("Token verification failed")
				reject(w, r, "invalid_token", "unauthorized", http.StatusUnauthorized)
				return
			}

			tc, err := tenant.NewContext(claims.OrgID, claims.Subject)
			if err != nil {
				log.Warn().Err(err).Msg("Token claims do not form a valid tenant context")
				reject(w, r, "invalid_context", "unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := gate.Allow(ctx, tc.OrgID())
			if err != nil {
				log.Error().Err(err).Str("org_id", tc.OrgID().String()).Msg("Suspension lookup failed")
				reject(w, r, "gate_error", "service unavailable", http.StatusServiceUnavailable)
				return
			}
			if !allowed {
				log.Warn().Str("org_id", tc.OrgID().String()).Msg("Organization is suspended")
				reject(w, r, "suspended", "organization suspended", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithContext(ctx, tc)))
		})
	}
}

// reject writes the error response and counts the rejection.
func reject(w http.ResponseWriter, r *http.Request, reason, msg string, code int) {
	telemetry.GetMetrics().AuthRejectsTotal.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
	http.Error(w, msg, code)
}

// extractBearerToken extracts the JWT from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
