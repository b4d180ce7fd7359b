package handlers

import (
	"net/http"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
)

const (
	ServiceName    = "Nagios Passive Receiver"
	ServiceVersion = "1.0.0"
)

// Root handles GET / with static service metadata
// @Summary      Service information
// @Description  Static metadata about the API
// @Tags         info
// @Produce      json
// @Success      200  {object}  application.ServiceInfo
// @Router       / [get]
func Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.ServiceInfo{
		Service: ServiceName,
		Version: ServiceVersion,
		Endpoints: map[string]string{
			"health":            "/health",
			"submit_check":      "/api/v1/passive-check (POST)",
			"submit_host_check": "/api/v1/host-check (POST)",
		},
	})
}
