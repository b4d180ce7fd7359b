package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	api "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/application"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/handlers"
	apimiddleware "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/api/middleware"
	configapp "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/config/application"
	"github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/infrastructure/logger"
)

// Server represents the API server
type Server struct {
	httpServer  *http.Server
	logger      *logger.Logger
	tlsCertFile string
	tlsKeyFile  string
}

// NewServer creates a new API server
func NewServer(
	appLogger *logger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	keys apimiddleware.KeyResolver,
	checkService *api.CheckService,
) (*Server, error) {
	// Initialize handlers
	checkHandler := handlers.NewCheckHandler(checkService)
	healthHandler := handlers.NewHealthHandler(checkService)

	// Setup chi router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	slogLogger := appLogger.SLog()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(handlers.WithLogger(req.Context(), slogLogger)))
		})
	})
	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))

	// Swagger UI (only in dev mode, no auth required)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	// Unauthenticated routes
	r.Get("/", handlers.Root)
	r.Get("/health", healthHandler.Health)

	// API v1 routes (with authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apimiddleware.APIKeyAuth(slogLogger, keys))

		r.Post("/passive-check", checkHandler.SubmitPassiveCheck)
		r.Post("/host-check", checkHandler.SubmitHostCheck)
	})

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(runtimeCfg.Host, runtimeCfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	appLogger.Debug("Server configured",
		"addr", httpServer.Addr,
		"tls", runtimeCfg.TLSEnabled(),
		"dev_mode", runtimeCfg.DevMode,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return &Server{
		httpServer:  httpServer,
		logger:      appLogger,
		tlsCertFile: runtimeCfg.TLSCertFile,
		tlsKeyFile:  runtimeCfg.TLSKeyFile,
	}, nil
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server, with TLS when a cert and key are configured
func (s *Server) Start() error {
	var err error
	if s.tlsCertFile != "" && s.tlsKeyFile != "" {
		s.logger.Info("Starting HTTPS server", "addr", s.httpServer.Addr)
		err = s.httpServer.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	} else {
		s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
		s.logger.Warn("TLS is not configured. Consider enabling TLS in production.")
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
