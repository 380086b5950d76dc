// Package http wires the chi router: REST API for dataset queries,
// analysis, simulation, benchmarking, charts and reports, plus the
// dashboard HTML shell.
package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"esglens/internal/config"
	apperrors "esglens/internal/errors"
	"esglens/internal/middleware"
	"esglens/internal/services"
)

// RouterDeps carries everything the router needs
type RouterDeps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Data      *services.DataService
	Analytics *services.AnalyticsService
	Version   string
}

// NewRouter assembles the full HTTP surface
func NewRouter(deps RouterDeps) (chi.Router, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apperrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()

	// Middleware order matters: request ID first so all later stages log
	// with the trace_id
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	if deps.Config != nil && deps.Config.Security.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(deps.Config.Security.RateLimit.RPS, deps.Config.Security.RateLimit.Burst, logger)
		r.Use(rl.Handler)
	}

	webHandler, err := NewWebHandler(deps.Data, deps.Analytics, logger)
	if err != nil {
		return nil, err
	}

	datasetHandler := NewDatasetHandler(deps.Data, deps.Analytics, logger, errorHandler)
	companyHandler := NewCompanyHandler(deps.Analytics, logger, errorHandler)
	rankingsHandler := NewRankingsHandler(deps.Analytics, errorHandler)
	simulatorHandler := NewSimulatorHandler(deps.Analytics, logger, errorHandler)
	benchmarkHandler := NewBenchmarkHandler(deps.Analytics, logger, errorHandler)
	chartHandler := NewChartHandler(deps.Analytics, logger, errorHandler)
	reportHandler := NewReportHandler(deps.Data, deps.Analytics, logger, errorHandler)
	exportHandler := NewExportHandler(deps.Data, deps.Analytics, errorHandler)
	healthHandler := NewHealthHandler(deps.Data, deps.Version)

	r.Get("/", webHandler.GetDashboard)
	r.Get("/healthz", healthHandler.GetHealth)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dataset", datasetHandler.Routes())
		r.Mount("/companies", companyHandler.Routes())
		r.Get("/rankings", rankingsHandler.GetRankings)
		r.Mount("/simulator", simulatorHandler.Routes())
		r.Mount("/benchmark", benchmarkHandler.Routes())
		r.Mount("/charts", chartHandler.Routes())
		r.Mount("/reports", reportHandler.Routes())
		r.Mount("/export", exportHandler.Routes())
	})

	return r, nil
}
