// Package server exposes the email chain and booking confirmations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plana-backend/internal/bookings"
	"plana-backend/internal/common/config"
	"plana-backend/internal/common/logger"
	"plana-backend/internal/common/observability"
	"plana-backend/internal/email"
)

// Mailer sends one transactional email through the fallback chain.
type Mailer interface {
	SendTransactionalEmail(ctx context.Context, req email.SendRequest) email.SendResult
}

// ConfirmationSender sends booking confirmation emails.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, req bookings.ConfirmationRequest) (email.SendResult, error)
}

// Pinger is a dependency reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Config        config.ServerConfig
	Environment   config.Mode
	Logger        logger.Logger
	Mailer        Mailer
	Notifier      ConfirmationSender
	Observability *observability.Observability
	HealthChecks  map[string]Pinger
}

type Server struct {
	cfg        config.ServerConfig
	env        config.Mode
	logger     logger.Logger
	mailer     Mailer
	notifier   ConfirmationSender
	obs        *observability.Observability
	checks     map[string]Pinger
	router     chi.Router
	httpServer *http.Server
}

func New(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Server{
		cfg:      deps.Config,
		env:      deps.Environment,
		logger:   log.WithFields(map[string]interface{}{"component": "http"}),
		mailer:   deps.Mailer,
		notifier: deps.Notifier,
		obs:      deps.Observability,
		checks:   deps.HealthChecks,
		router:   chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestMetrics)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/emails", func(r chi.Router) {
		r.Post("/booking-confirmation", s.handleBookingConfirmation)
		r.Post("/test", s.handleTestEmail)
	})
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}

	s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	timeout := config.GetDuration(s.cfg.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
