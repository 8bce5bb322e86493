// Package httptransport wires the HTTP surface: registration, the query
// endpoints, liveness, and metrics. Handlers delegate to domain services
// so transport concerns stay isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giveaway/internal/platform/metrics"
	"giveaway/internal/platform/middleware"
	"giveaway/internal/platform/ratelimit"
)

// RouterConfig collects everything the router mounts. Limiter may be nil
// to disable the registration throttle (tests, local runs).
type RouterConfig struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Registration RegistrationService
	Winners      WinnerService
	Logs         AuditLog
	Limiter      ratelimit.Store
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	regHandler := NewRegistrationHandler(cfg.Registration, cfg.Logger, cfg.Metrics)
	queryHandler := NewQueryHandler(cfg.Winners, cfg.Logs, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(cfg.Metrics))

	r.With(ratelimit.Middleware(cfg.Limiter, nil)).Post("/register", regHandler.handleRegister)
	r.Get("/registrations", regHandler.handleListRegistrations)
	r.Get("/winners", queryHandler.handleListWinners)
	r.Get("/logs", queryHandler.handleListLogs)
	r.Get("/ping", queryHandler.handlePing)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
