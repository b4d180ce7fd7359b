package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
)

type loggerKeyType struct{}

var loggerKey loggerKeyType = struct{}{}

// WithLogger binds the request logger into the context; the server installs
// it as middleware so every handler logs through the configured logger.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// getLogger extracts the logger from the request context
// Falls back to slog.Default() if not found
func getLogger(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}
