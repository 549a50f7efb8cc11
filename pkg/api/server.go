// Package api provides the HTTP surface of the resolution engine.
package api

import (
	"context"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"
	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/intentflow/resolver/pkg/database"
	"github.com/intentflow/resolver/pkg/feedback"
	"github.com/intentflow/resolver/pkg/metrics"
	"github.com/intentflow/resolver/pkg/resolver"
	"github.com/intentflow/resolver/pkg/review"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	validate   *validator.Validate

	dbClient    *database.Client
	resolver    *resolver.Resolver
	feedback    *feedback.Manager
	stats       *feedback.Stats
	reviewQueue *review.Queue
	metrics     *metrics.Registry

	// redisPing is an optional liveness probe for the pending-record
	// cache's backing Redis client, surfaced on GET /health.
	redisPing func(ctx context.Context) error

	ready func() bool
}

// NewServer creates an API server and registers its routes. ready reports
// whether startup (corpus load, migrations, memory replay) has finished;
// requests are rejected with 503 until it returns true (spec.md §6).
func NewServer(
	dbClient *database.Client,
	res *resolver.Resolver,
	fm *feedback.Manager,
	stats *feedback.Stats,
	reviewQueue *review.Queue,
	reg *metrics.Registry,
	ready func() bool,
) *Server {
	e := echo.New()

	s := &Server{
		echo:        e,
		validate:    validator.New(),
		dbClient:    dbClient,
		resolver:    res,
		feedback:    fm,
		stats:       stats,
		reviewQueue: reviewQueue,
		metrics:     reg,
		ready:       ready,
	}

	s.setupRoutes()
	return s
}

// SetRedisPing wires a liveness probe for Redis, reported on GET /health.
func (s *Server) SetRedisPing(ping func(ctx context.Context) error) {
	s.redisPing = ping
}

func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(2 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)
	s.echo.GET("/metrics", s.metricsHandler)

	v1 := s.echo.Group("")
	if s.ready != nil {
		v1.Use(notReady(s.ready))
	}

	v1.POST("/resolve-intent", s.resolveIntentHandler)
	v1.POST("/feedback", s.submitFeedbackHandler)
	v1.GET("/feedback/stats", s.feedbackStatsHandler)
	v1.GET("/feedback/review-queue", s.reviewQueueHandler)
	v1.POST("/feedback/review-queue/:item_id/resolve", s.resolveReviewItemHandler)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener. Used
// by tests to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server, draining in-flight
// requests before returning.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// metricsHandler handles GET /metrics, serving the default Prometheus
// registry promhttp scrapes from elsewhere in the pack.
func (s *Server) metricsHandler(c *echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
