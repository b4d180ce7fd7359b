package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/infrastructure/logger"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		writable       bool
		expectedStatus string
	}{
		{
			name:           "command file writable",
			writable:       true,
			expectedStatus: "healthy",
		},
		{
			name:           "command file not writable",
			writable:       false,
			expectedStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &mockWriter{writable: tt.writable}
			handler := NewHealthHandler(api.NewCheckService(logger.DefaultLogger(), writer))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}

			var resp api.HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedStatus {
				t.Errorf("expected status %q, got %q", tt.expectedStatus, resp.Status)
			}
			if resp.NagiosCmdWritable != tt.writable {
				t.Errorf("expected nagios_cmd_writable=%v, got %v", tt.writable, resp.NagiosCmdWritable)
			}
			if resp.NagiosCmdPath != writer.Path() {
				t.Errorf("expected path %q, got %q", writer.Path(), resp.NagiosCmdPath)
			}
			if resp.Timestamp.IsZero() {
				t.Error("expected non-zero timestamp")
			}
		})
	}
}

func TestRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Root(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp api.ServiceInfo
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Service != ServiceName {
		t.Errorf("expected service %q, got %q", ServiceName, resp.Service)
	}
	if _, ok := resp.Endpoints["submit_check"]; !ok {
		t.Errorf("expected endpoint map to list submit_check, got %v", resp.Endpoints)
	}
}
