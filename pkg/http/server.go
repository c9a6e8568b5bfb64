package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vishalk7890/Support-IQ/pkg/dashboard"
	"github.com/vishalk7890/Support-IQ/pkg/errors"
	"github.com/vishalk7890/Support-IQ/pkg/ingest"
	"github.com/vishalk7890/Support-IQ/pkg/metrics"
	"github.com/vishalk7890/Support-IQ/pkg/version"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// ConnectionChecker reports whether an external connection is alive,
// used for health checks on optional components
type ConnectionChecker interface {
	IsConnected() bool
}

// Server represents the HTTP server exposing the coaching analytics API
type Server struct {
	config    *Config
	logger    *logrus.Logger
	httpServer *http.Server
	mux       *http.ServeMux
	startTime time.Time
	dashboard *dashboard.Service
	ingest    *ingest.Processor
	notifier  ConnectionChecker
}

// NewServer creates a new HTTP server instance
func NewServer(logger *logrus.Logger, config *Config, dashboardService *dashboard.Service, ingestProcessor *ingest.Processor) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	server := &Server{
		config:    config,
		logger:    logger,
		startTime: time.Now(),
		dashboard: dashboardService,
		ingest:    ingestProcessor,
	}

	mux := http.NewServeMux()
	server.mux = mux

	// Wrap handlers with middleware that adds Server header
	addServerHeader := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Server", version.ServerHeader())
			next(w, r)
		}
	}

	// Register standard endpoints
	mux.HandleFunc("/health", addServerHeader(server.HealthHandler))
	mux.HandleFunc("/health/live", addServerHeader(server.LivenessHandler))
	mux.HandleFunc("/health/ready", addServerHeader(server.ReadinessHandler))

	// Add metrics endpoint based on configuration
	if config.EnableMetrics {
		if registry := metrics.GetRegistry(); registry != nil {
			promHandler := promhttp.HandlerFor(
				registry,
				promhttp.HandlerOpts{
					EnableOpenMetrics: true,
					Registry:          registry,
				},
			)
			mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Server", version.ServerHeader())
				promHandler.ServeHTTP(w, r)
			})
			logger.Info("Prometheus metrics endpoint enabled at /metrics")
		}
	} else {
		logger.Info("Metrics endpoint disabled")
	}

	mux.HandleFunc("/status", addServerHeader(server.statusHandler))

	// API endpoints
	mux.HandleFunc("/coaching-analytics", addServerHeader(withCORS("GET,OPTIONS", server.AnalyticsHandler)))
	mux.HandleFunc("/ingest", addServerHeader(withCORS("POST,OPTIONS", server.IngestHandler)))

	// Create the HTTP server
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server
}

// SetNotifier sets the messaging client reference for health checks
func (s *Server) SetNotifier(notifier ConnectionChecker) {
	s.notifier = notifier
}

// Handler returns the underlying request multiplexer, used in tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server in a goroutine
func (s *Server) Start() {
	s.logger.WithField("port", s.config.Port).Info("Starting HTTP server")

	go func() {
		s.logger.Infof("HTTP server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server failed")
		}
	}()

	// Verify that we can actually bind to the port
	go func() {
		time.Sleep(500 * time.Millisecond)

		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", s.config.Port), 2*time.Second)
		if err != nil {
			s.logger.WithError(err).Error("Could not connect to HTTP server")
		} else {
			s.logger.Info("HTTP server is running correctly")
			conn.Close()
		}
	}()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

// ErrorResponse sends a standardized error response
func (s *Server) ErrorResponse(w http.ResponseWriter, err error) {
	errors.WriteError(w, err)
	s.logger.WithError(err).Warn("HTTP error response sent")
}
