package handlers

import (
	"net/http"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
)

// HealthHandler reports service health
type HealthHandler struct {
	service *api.CheckService
}

func NewHealthHandler(service *api.CheckService) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Reports whether the service is running and the Nagios command file is writable
// @Tags         health
// @Produce      json
// @Success      200  {object}  application.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health(r.Context())
	if health.Status != "healthy" {
		getLogger(r).Warn("Health check degraded", "path", health.NagiosCmdPath)
	}
	respondJSON(w, http.StatusOK, health)
}
