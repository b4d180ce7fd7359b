package application

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Problems map[string]string `json:"problems,omitempty"`
}

// SubmitResponse confirms an accepted check submission.
type SubmitResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports service health including the writability of the
// Nagios command file.
type HealthResponse struct {
	Status            string    `json:"status"`
	NagiosCmdWritable bool      `json:"nagios_cmd_writable"`
	Timestamp         time.Time `json:"timestamp"`
	NagiosCmdPath     string    `json:"nagios_cmd_path"`
}

// ServiceInfo is the static metadata served at the root path.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
