package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/infrastructure/logger"
)

func loadDefaults() *RuntimeConfig {
	return LoadRuntimeConfig("", "", "", "", "", "", "", "", "", false)
}

func TestLoadRuntimeConfigDefaults(t *testing.T) {
	cfg := loadDefaults()

	if cfg.NagiosCmdPath != "/var/nagios/rw/nagios.cmd" {
		t.Errorf("unexpected default command path: %q", cfg.NagiosCmdPath)
	}
	if cfg.APIKeysFile != "api_keys.json" {
		t.Errorf("unexpected default keys file: %q", cfg.APIKeysFile)
	}
	if cfg.Host != "0.0.0.0" || cfg.Port != "8000" {
		t.Errorf("unexpected default bind: %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.TLSEnabled() {
		t.Error("TLS should be disabled by default")
	}
	if cfg.DevMode {
		t.Error("dev mode should be disabled by default")
	}
}

func TestLoadRuntimeConfigPrecedence(t *testing.T) {
	t.Setenv("NAGRELAY_PORT", "9000")
	t.Setenv("NAGRELAY_HOST", "127.0.0.1")

	// Flag wins over env for port; env wins over default for host.
	cfg := LoadRuntimeConfig("", "", "", "9443", "", "", "", "", "", false)

	if cfg.Port != "9443" {
		t.Errorf("flag should win over env, got port %q", cfg.Port)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("env should win over default, got host %q", cfg.Host)
	}
}

func TestLoadRuntimeConfigDevModeFromEnv(t *testing.T) {
	t.Setenv("NAGRELAY_DEV_MODE", "true")
	if !loadDefaults().DevMode {
		t.Error("expected dev mode from env")
	}

	t.Setenv("NAGRELAY_DEV_MODE", "no")
	if loadDefaults().DevMode {
		t.Error("expected dev mode off")
	}
}

func TestRuntimeConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *RuntimeConfig)
		expectErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *RuntimeConfig) {},
		},
		{
			name:      "non-numeric port",
			mutate:    func(c *RuntimeConfig) { c.Port = "http" },
			expectErr: true,
		},
		{
			name:      "cert without key",
			mutate:    func(c *RuntimeConfig) { c.TLSCertFile = "server.crt" },
			expectErr: true,
		},
		{
			name:      "key without cert",
			mutate:    func(c *RuntimeConfig) { c.TLSKeyFile = "server.key" },
			expectErr: true,
		},
		{
			name: "cert and key",
			mutate: func(c *RuntimeConfig) {
				c.TLSCertFile = "server.crt"
				c.TLSKeyFile = "server.key"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("NAGRELAY_ENV_LOADER_PROBE=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NAGRELAY_ENV_LOADER_PROBE", "")
	os.Unsetenv("NAGRELAY_ENV_LOADER_PROBE")

	if !LoadEnvFile(logger.DefaultLogger(), path) {
		t.Fatal("expected env file to load")
	}
	if got := os.Getenv("NAGRELAY_ENV_LOADER_PROBE"); got != "from-file" {
		t.Errorf("expected env var from file, got %q", got)
	}

	if LoadEnvFile(logger.DefaultLogger(), filepath.Join(t.TempDir(), "missing.env")) {
		t.Error("expected missing env file to report false")
	}
}
