// Package server exposes the delineation pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cmorran/watershed/pkg/delineate"
	"github.com/cmorran/watershed/pkg/health"
	"github.com/cmorran/watershed/pkg/logging"
	"github.com/cmorran/watershed/pkg/metrics"
)

// Server represents the HTTP API server.
type Server struct {
	service   *delineate.Service
	checker   *health.HealthChecker
	registry  *metrics.Registry
	logger    logging.Logger
	startTime time.Time
	version   string
	// maxUnits is the service-wide traversal cap; requests may lower it
	// but never raise it.
	maxUnits int
}

// NewServer creates a new API server.
func NewServer(service *delineate.Service, checker *health.HealthChecker, registry *metrics.Registry, logger logging.Logger, maxUnits int) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	if checker == nil {
		checker = health.NewHealthChecker()
	}
	return &Server{
		service:   service,
		checker:   checker,
		registry:  registry,
		logger:    logger,
		startTime: time.Now(),
		version:   "1.0.0",
		maxUnits:  maxUnits,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("/health", s.checker.HTTPHandler())
	mux.HandleFunc("/ready", s.checker.ReadinessHandler())
	mux.HandleFunc("/live", s.checker.LivenessHandler())
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	}

	// Delineation endpoints
	mux.HandleFunc("/delineate", s.handleDelineate)
	mux.HandleFunc("/version", s.handleVersion)

	var handler http.Handler = mux
	if s.registry != nil {
		handler = s.metricsMiddleware(handler)
	}
	return handler
}
