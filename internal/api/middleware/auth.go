package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
)

// KeyResolver resolves API keys to submitter names. Implemented by the
// credentials store.
type KeyResolver interface {
	Lookup(key string) (string, bool)
	Len() int
}

type submitterKeyType struct{}

var submitterKey submitterKeyType = struct{}{}

// APIKeyAuth validates the X-API-Key header against the resolver and binds
// the submitter name into the request context. The identity is used for
// logging only; holding any valid key grants the same access.
func APIKeyAuth(logger *slog.Logger, keys KeyResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				logger.Warn("Request without API key", "path", r.URL.Path)
				respondJSONError(w, http.StatusUnauthorized, "Missing API key")
				return
			}

			if keys.Len() == 0 {
				logger.Error("No API keys configured")
				respondJSONError(w, http.StatusInternalServerError, "Server configuration error: no API keys configured")
				return
			}

			submitter, ok := keys.Lookup(apiKey)
			if !ok {
				logger.Warn("Invalid API key attempted", "path", r.URL.Path)
				respondJSONError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			logger.Info("Authenticated request", "submitter", submitter, "path", r.URL.Path)
			ctx := context.WithValue(r.Context(), submitterKey, submitter)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubmitterFrom returns the submitter name bound by APIKeyAuth, if any.
func SubmitterFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(submitterKey).(string)
	return name, ok
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := api.ErrorResponse{Error: message}
	json.NewEncoder(w).Encode(response)
}
