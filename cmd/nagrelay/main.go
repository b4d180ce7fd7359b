// @title           Nagios Passive Receiver API
// @version         1.0.0
// @description     HTTP API for receiving passive check results for Nagios

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key authentication

// @BasePath  /api/v1

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/hemi-ncsa-dt/nagios-passive-receiver/docs" // Swagger docs

	apiserver "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api"
	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/handlers"
	checkinfra "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/check/infrastructure"
	configapp "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/config/application"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/credentials"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/infrastructure/logger"
)

var (
	flagNagiosCmd   string
	flagAPIKeysFile string
	flagHost        string
	flagPort        string
	flagTLSCert     string
	flagTLSKey      string
	flagLogLevel    string
	flagLogFormat   string
	flagLogOutput   string
	flagEnvFile     string
	flagDevMode     bool
)

var rootCmd = &cobra.Command{
	Use:   "nagrelay",
	Short: "HTTP receiver for Nagios passive check results",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP receiver",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagNagiosCmd, "nagios-cmd", "", "path to the Nagios external command file")
	serveCmd.Flags().StringVar(&flagAPIKeysFile, "api-keys", "", "path to the API keys JSON file")
	serveCmd.Flags().StringVar(&flagHost, "host", "", "address to bind")
	serveCmd.Flags().StringVar(&flagPort, "port", "", "port to bind")
	serveCmd.Flags().StringVar(&flagTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&flagTLSKey, "tls-key", "", "TLS key file")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	serveCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "log format (text, json)")
	serveCmd.Flags().StringVar(&flagLogOutput, "log-output", "", "log output (stdout, stderr, or file path)")
	serveCmd.Flags().StringVar(&flagEnvFile, "env-file", "", "path to .env file")
	serveCmd.Flags().BoolVar(&flagDevMode, "dev", false, "enable dev mode (swagger UI)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configapp.LoadEnvFile(logger.DefaultLogger(), flagEnvFile)

	cfg := configapp.LoadRuntimeConfig(
		flagNagiosCmd, flagAPIKeysFile,
		flagHost, flagPort,
		flagTLSCert, flagTLSKey,
		flagLogLevel, flagLogFormat, flagLogOutput,
		flagDevMode,
	)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting Nagios Passive Receiver", "version", handlers.ServiceVersion)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load API keys; a missing file only warns, a malformed one is fatal.
	store := credentials.NewStore(appLogger, cfg.APIKeysFile)
	if err := store.Load(); err != nil {
		appLogger.Error("Failed to load API keys", "err", err)
		return fmt.Errorf("failed to load API keys: %w", err)
	}
	if store.Len() == 0 {
		appLogger.Warn("No API keys configured; all submissions will be rejected until a reload")
	}

	writer := checkinfra.NewNagiosCommandWriter(appLogger, cfg.NagiosCmdPath)
	if !writer.IsWritable() {
		appLogger.Warn("Nagios command file is not writable", "path", cfg.NagiosCmdPath)
	}
	checkService := api.NewCheckService(appLogger, writer)

	apiServer, err := apiserver.NewServer(appLogger, cfg, store, checkService)
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}

	// SIGHUP reloads the API key file without a restart. A failed reload
	// keeps the previous keys active.
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)
	go func() {
		for range hupChan {
			if err := store.Reload(); err != nil {
				appLogger.Error("API key reload failed, keeping previous keys", "err", err)
			}
		}
	}()
	defer signal.Stop(hupChan)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("Nagios Passive Receiver started, waiting for shutdown signal")

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("API server shutdown error", "err", err)
			return fmt.Errorf("API server shutdown error: %w", err)
		}

		appLogger.Info("Graceful shutdown completed")
		return nil
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		return err
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
