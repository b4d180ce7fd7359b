package application

import (
	"os"
	"strconv"
	"strings"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment
// variables, and .env file. It is built once at startup and passed by
// reference into the components that need it; nothing else reads the
// environment.
type RuntimeConfig struct {
	// Nagios integration
	NagiosCmdPath string
	APIKeysFile   string

	// HTTP bind
	Host string
	Port string

	// Optional TLS termination
	TLSCertFile string
	TLSKeyFile  string

	// Development Mode
	DevMode bool

	// Logging Configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env vars > .env file > defaults
func LoadRuntimeConfig(nagiosCmdPath, apiKeysFile, host, port, tlsCert, tlsKey, logLevel, logFormat, logOutput string, devMode bool) *RuntimeConfig {
	return &RuntimeConfig{
		NagiosCmdPath: getValue(nagiosCmdPath, "NAGRELAY_NAGIOS_CMD_PATH", "/var/nagios/rw/nagios.cmd"),
		APIKeysFile:   getValue(apiKeysFile, "NAGRELAY_API_KEYS_FILE", "api_keys.json"),
		Host:          getValue(host, "NAGRELAY_HOST", "0.0.0.0"),
		Port:          getValue(port, "NAGRELAY_PORT", "8000"),
		TLSCertFile:   getValue(tlsCert, "NAGRELAY_TLS_CERT_FILE", ""),
		TLSKeyFile:    getValue(tlsKey, "NAGRELAY_TLS_KEY_FILE", ""),
		DevMode:       devMode || getBoolEnv("NAGRELAY_DEV_MODE", false),
		LogLevel:      getValue(logLevel, "NAGRELAY_LOG_LEVEL", "INFO"),
		LogFormat:     getValue(logFormat, "NAGRELAY_LOG_FORMAT", "text"),
		LogOutput:     getValue(logOutput, "NAGRELAY_LOG_OUTPUT", "stdout"),
	}
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable
func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "true" || value == "1" || value == "yes" {
		return true
	}
	if value == "false" || value == "0" || value == "no" {
		return false
	}
	return defaultValue
}

// TLSEnabled reports whether a TLS certificate and key are both configured.
func (c *RuntimeConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Validate checks that the configuration is usable.
func (c *RuntimeConfig) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return &ConfigError{Field: "port", Message: "port must be numeric: " + c.Port}
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return &ConfigError{Field: "tls", Message: "TLS cert and key must both be set or both be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
