// Package domain holds the passive check submissions accepted over HTTP and
// the validation rules that keep them representable as single-line Nagios
// external commands.
package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/shared/validation"
)

var (
	_ validation.Validator = (*ServiceCheck)(nil)
	_ validation.Validator = (*HostCheck)(nil)
)

// Service states understood by Nagios.
const (
	ServiceOK       = 0
	ServiceWarning  = 1
	ServiceCritical = 2
	ServiceUnknown  = 3
)

// Host states understood by Nagios.
const (
	HostUp          = 0
	HostDown        = 1
	HostUnreachable = 2
)

// forbiddenChars would corrupt the semicolon-delimited, one-line command
// format if they reached the command file.
const forbiddenChars = "\n\r\t;|"

// ServiceCheck is one passive service-check result.
type ServiceCheck struct {
	HostName           string `json:"host_name"`
	ServiceDescription string `json:"service_description"`
	ReturnCode         int    `json:"return_code"`
	PluginOutput       string `json:"plugin_output"`
}

func (c *ServiceCheck) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 4)

	if problem := checkIdentifier(c.HostName); problem != "" {
		problems["host_name"] = problem
	}
	if problem := checkIdentifier(c.ServiceDescription); problem != "" {
		problems["service_description"] = problem
	}
	if c.ReturnCode < ServiceOK || c.ReturnCode > ServiceUnknown {
		problems["return_code"] = fmt.Sprintf("must be between %d and %d", ServiceOK, ServiceUnknown)
	}
	if problem := checkOutput(c.PluginOutput); problem != "" {
		problems["plugin_output"] = problem
	}

	return problems
}

// Normalize returns the submission with identifier fields trimmed. Plugin
// output is deliberately left verbatim; it is freeform diagnostic text.
func (c ServiceCheck) Normalize() ServiceCheck {
	c.HostName = strings.TrimSpace(c.HostName)
	c.ServiceDescription = strings.TrimSpace(c.ServiceDescription)
	return c
}

// HostCheck is one passive host-check result.
type HostCheck struct {
	HostName     string `json:"host_name"`
	HostStatus   int    `json:"host_status"`
	PluginOutput string `json:"plugin_output"`
}

func (c *HostCheck) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 3)

	if problem := checkIdentifier(c.HostName); problem != "" {
		problems["host_name"] = problem
	}
	if c.HostStatus < HostUp || c.HostStatus > HostUnreachable {
		problems["host_status"] = fmt.Sprintf("must be between %d and %d", HostUp, HostUnreachable)
	}
	if problem := checkOutput(c.PluginOutput); problem != "" {
		problems["plugin_output"] = problem
	}

	return problems
}

func (c HostCheck) Normalize() HostCheck {
	c.HostName = strings.TrimSpace(c.HostName)
	return c
}

// checkIdentifier validates host names and service descriptions. Emptiness
// is judged after trimming, forbidden characters on the raw value, so a
// field of only whitespace reads as empty rather than as a stray tab.
func checkIdentifier(v string) string {
	if strings.TrimSpace(v) == "" {
		return "cannot be empty"
	}
	if i := strings.IndexAny(v, forbiddenChars); i >= 0 {
		return fmt.Sprintf("contains forbidden character: %q", string(v[i]))
	}
	return ""
}

// checkOutput validates plugin output, which only needs to stay on one line.
func checkOutput(v string) string {
	if strings.ContainsAny(v, "\n\r") {
		return "cannot contain newlines"
	}
	return ""
}
