package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type mapResolver map[string]string

func (m mapResolver) Lookup(key string) (string, bool) {
	name, ok := m[key]
	return name, ok
}

func (m mapResolver) Len() int {
	return len(m)
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name           string
		keys           mapResolver
		headerKey      string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid API key",
			keys:           mapResolver{"test-api-key": "disk-plugin"},
			headerKey:      "test-api-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key header",
			keys:           mapResolver{"test-api-key": "disk-plugin"},
			headerKey:      "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Missing API key",
		},
		{
			name:           "invalid API key",
			keys:           mapResolver{"test-api-key": "disk-plugin"},
			headerKey:      "wrong-key",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid API key",
		},
		{
			name:           "no keys configured",
			keys:           mapResolver{},
			headerKey:      "any-key",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "no API keys configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The test handler reports the submitter bound in context.
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				submitter, ok := SubmitterFrom(r.Context())
				if !ok {
					t.Error("expected submitter in context")
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(submitter))
			})

			handler := APIKeyAuth(slog.Default(), tt.keys)(nextHandler)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/passive-check", nil)
			if tt.headerKey != "" {
				req.Header.Set("X-API-Key", tt.headerKey)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				if w.Body.String() != "disk-plugin" {
					t.Errorf("expected submitter bound in context, got body: %q", w.Body.String())
				}
			}
		})
	}
}
