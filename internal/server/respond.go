package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	"github.com/ehsan18t/insight-desk-sub000/internal/telemetry"
	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError translates a unit-of-work error into an HTTP response. Row
// security rejections and cross-organization misses both answer 404: the
// existence of another organization's rows is never leaked.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrRowSecurityViolation):
		telemetry.GetMetrics().RowSecurityRejectsTotal.Add(r.Context(), 1)
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Write rejected by row security")
		http.Error(w, "not found", http.StatusNotFound)
	case isNotFound(err):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Unit of work failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrTicketNotFound) ||
		errors.Is(err, store.ErrCommentNotFound) ||
		errors.Is(err, store.ErrOrganizationNotFound) ||
		errors.Is(err, store.ErrMembershipNotFound) ||
		errors.Is(err, store.ErrUserNotFound)
}

// tenantContext retrieves the tenant context the auth middleware stored. A
// miss means the route was wired outside the middleware, which is a bug, so
// the request fails rather than running unscoped.
func tenantContext(w http.ResponseWriter, r *http.Request) (tenant.Context, bool) {
	tc, ok := tenant.FromContext(r.Context())
	if !ok {
		log.Error().Msg("Request reached handler without tenant context")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return tenant.Context{}, false
	}
	return tc, true
}
