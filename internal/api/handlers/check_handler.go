package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/middleware"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/check/domain"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/shared/validation"
)

// serviceCheckRequest mirrors domain.ServiceCheck with pointer fields so a
// JSON body with a key absent is distinguishable from one carrying the zero
// value. Every field is required.
type serviceCheckRequest struct {
	HostName           *string `json:"host_name"`
	ServiceDescription *string `json:"service_description"`
	ReturnCode         *int    `json:"return_code"`
	PluginOutput       *string `json:"plugin_output"`
}

func (r *serviceCheckRequest) missing() map[string]string {
	problems := make(map[string]string, 4)
	if r.HostName == nil {
		problems["host_name"] = "is required"
	}
	if r.ServiceDescription == nil {
		problems["service_description"] = "is required"
	}
	if r.ReturnCode == nil {
		problems["return_code"] = "is required"
	}
	if r.PluginOutput == nil {
		problems["plugin_output"] = "is required"
	}
	return problems
}

func (r *serviceCheckRequest) check() domain.ServiceCheck {
	return domain.ServiceCheck{
		HostName:           *r.HostName,
		ServiceDescription: *r.ServiceDescription,
		ReturnCode:         *r.ReturnCode,
		PluginOutput:       *r.PluginOutput,
	}
}

// hostCheckRequest is the host-check counterpart of serviceCheckRequest.
type hostCheckRequest struct {
	HostName     *string `json:"host_name"`
	HostStatus   *int    `json:"host_status"`
	PluginOutput *string `json:"plugin_output"`
}

func (r *hostCheckRequest) missing() map[string]string {
	problems := make(map[string]string, 3)
	if r.HostName == nil {
		problems["host_name"] = "is required"
	}
	if r.HostStatus == nil {
		problems["host_status"] = "is required"
	}
	if r.PluginOutput == nil {
		problems["plugin_output"] = "is required"
	}
	return problems
}

func (r *hostCheckRequest) check() domain.HostCheck {
	return domain.HostCheck{
		HostName:     *r.HostName,
		HostStatus:   *r.HostStatus,
		PluginOutput: *r.PluginOutput,
	}
}

// CheckHandler accepts passive check submissions
type CheckHandler struct {
	service *api.CheckService
}

// NewCheckHandler creates a new check submission handler
func NewCheckHandler(service *api.CheckService) *CheckHandler {
	return &CheckHandler{
		service: service,
	}
}

// SubmitPassiveCheck handles POST /api/v1/passive-check
// @Summary      Submit a passive service check result
// @Description  Append a PROCESS_SERVICE_CHECK_RESULT command to the Nagios command file
// @Tags         checks
// @Accept       json
// @Produce      json
// @Param        check  body      domain.ServiceCheck  true  "Service check result"
// @Success      200    {object}  application.SubmitResponse
// @Failure      401    {object}  application.ErrorResponse
// @Failure      422    {object}  application.ErrorResponse
// @Failure      500    {object}  application.ErrorResponse
// @Failure      503    {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /passive-check [post]
func (h *CheckHandler) SubmitPassiveCheck(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	var req serviceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Rejected unparseable passive check", "err", err)
		respondJSONError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	if problems := req.missing(); len(problems) > 0 {
		logger.Warn("Rejected incomplete passive check", "problems", problems)
		respondJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:    "Validation failed",
			Problems: problems,
		})
		return
	}

	check := req.check()
	if problems := check.Valid(r.Context()); len(problems) > 0 {
		valErr := validation.NewValidationError(problems, "passive-check")
		logger.Warn("Rejected invalid passive check", "err", valErr)
		respondJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:    "Validation failed",
			Problems: problems,
		})
		return
	}
	check = check.Normalize()

	submitter, _ := middleware.SubmitterFrom(r.Context())
	logger.Info("Received passive check",
		"submitter", submitter,
		"host", check.HostName,
		"service", check.ServiceDescription,
		"code", check.ReturnCode,
	)

	if err := h.service.SubmitServiceCheck(r.Context(), check); err != nil {
		if errors.Is(err, api.ErrCommandFileNotWritable) {
			respondJSONError(w, http.StatusServiceUnavailable, "Cannot write to Nagios command file")
			return
		}
		logger.Error("Failed to write passive check", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to write passive check result")
		return
	}

	respondJSON(w, http.StatusOK, api.SubmitResponse{
		Status:    "success",
		Message:   fmt.Sprintf("Passive check result submitted for %s/%s", check.HostName, check.ServiceDescription),
		Timestamp: time.Now().UTC(),
	})
}

// SubmitHostCheck handles POST /api/v1/host-check
// @Summary      Submit a passive host check result
// @Description  Append a PROCESS_HOST_CHECK_RESULT command to the Nagios command file
// @Tags         checks
// @Accept       json
// @Produce      json
// @Param        check  body      domain.HostCheck  true  "Host check result"
// @Success      200    {object}  application.SubmitResponse
// @Failure      401    {object}  application.ErrorResponse
// @Failure      422    {object}  application.ErrorResponse
// @Failure      500    {object}  application.ErrorResponse
// @Failure      503    {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /host-check [post]
func (h *CheckHandler) SubmitHostCheck(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	var req hostCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Rejected unparseable host check", "err", err)
		respondJSONError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	if problems := req.missing(); len(problems) > 0 {
		logger.Warn("Rejected incomplete host check", "problems", problems)
		respondJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:    "Validation failed",
			Problems: problems,
		})
		return
	}

	check := req.check()
	if problems := check.Valid(r.Context()); len(problems) > 0 {
		valErr := validation.NewValidationError(problems, "host-check")
		logger.Warn("Rejected invalid host check", "err", valErr)
		respondJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:    "Validation failed",
			Problems: problems,
		})
		return
	}
	check = check.Normalize()

	submitter, _ := middleware.SubmitterFrom(r.Context())
	logger.Info("Received host check",
		"submitter", submitter,
		"host", check.HostName,
		"status", check.HostStatus,
	)

	if err := h.service.SubmitHostCheck(r.Context(), check); err != nil {
		if errors.Is(err, api.ErrCommandFileNotWritable) {
			respondJSONError(w, http.StatusServiceUnavailable, "Cannot write to Nagios command file")
			return
		}
		logger.Error("Failed to write host check", "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to write host check result")
		return
	}

	respondJSON(w, http.StatusOK, api.SubmitResponse{
		Status:    "success",
		Message:   fmt.Sprintf("Host check result submitted for %s", check.HostName),
		Timestamp: time.Now().UTC(),
	})
}
