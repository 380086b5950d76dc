package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/services"
)

// BenchmarkHandler serves peer benchmarking endpoints
type BenchmarkHandler struct {
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewBenchmarkHandler creates the benchmark handler
func NewBenchmarkHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *BenchmarkHandler {
	return &BenchmarkHandler{
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "benchmark_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the benchmark routes
func (h *BenchmarkHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/quartiles", h.GetQuartiles)
	r.Route("/{company}", func(r chi.Router) {
		r.Use(companyCtx(h.errorHandler))
		r.Get("/stats", h.GetStats)
		r.Get("/peers", h.GetPeers)
		r.Get("/insights", h.GetInsights)
	})

	return r
}

// GetStats returns distribution statistics for one company and metric
func (h *BenchmarkHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = dataset.MetricTotalESG
	}

	stats, err := h.analytics.PeerStatistics(r.Context(), chi.URLParam(r, "company"), metric, r.URL.Query().Get("sector"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// GetPeers returns the comparison matrix for the company and selected peers
func (h *BenchmarkHandler) GetPeers(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	companies := append([]string{company}, splitParam(r.URL.Query().Get("companies"))...)
	metrics := splitParam(r.URL.Query().Get("metrics"))
	if len(metrics) == 0 {
		metrics = dataset.ScoreMetrics()
	}

	matrix, err := h.analytics.CompareMatrix(r.Context(), companies, metrics)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, matrix)
}

// GetInsights returns competitive strengths and weaknesses
func (h *BenchmarkHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.analytics.CompetitiveInsights(r.Context(), chi.URLParam(r, "company"), r.URL.Query().Get("sector"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, insights)
}

// GetQuartiles returns the quartile bands for a metric
func (h *BenchmarkHandler) GetQuartiles(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = dataset.MetricTotalESG
	}

	sector := r.URL.Query().Get("sector")
	bands, err := h.analytics.QuartileDistribution(r.Context(), metric, sector)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	resp := map[string]interface{}{
		"metric":    metric,
		"quartiles": bands,
	}
	if sector != "" {
		resp["sector"] = sector
	}
	render.JSON(w, r, resp)
}
