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

// CompanyHandler serves per-company analysis endpoints and rankings
type CompanyHandler struct {
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewCompanyHandler creates the company handler
func NewCompanyHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *CompanyHandler {
	return &CompanyHandler{
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "company_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the company routes
func (h *CompanyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/{company}", func(r chi.Router) {
		r.Use(companyCtx(h.errorHandler))
		r.Get("/", h.GetProfile)
		r.Get("/metrics", h.GetMetrics)
		r.Get("/benchmark", h.GetBenchmark)
		r.Get("/risks", h.GetRisks)
		r.Get("/improvements", h.GetImprovements)
		r.Get("/history", h.GetHistory)
	})

	return r
}

// companyCtx rejects requests with an empty company path parameter
func companyCtx(errorHandler *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "company") == "" {
				errorHandler.HandleError(w, r, apperrors.ValidationError("company", "company name is required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetProfile returns the full analysis bundle for one company
func (h *CompanyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.analytics.CompanyProfile(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, profile)
}

// GetMetrics returns latest scores, trends and rating
func (h *CompanyHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	profile, err := h.analytics.CompanyProfile(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, profile.Metrics)
}

// GetBenchmark returns the company-versus-sector comparison
func (h *CompanyHandler) GetBenchmark(w http.ResponseWriter, r *http.Request) {
	profile, err := h.analytics.CompanyProfile(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, profile.Benchmark)
}

// GetRisks returns the raised risk flags
func (h *CompanyHandler) GetRisks(w http.ResponseWriter, r *http.Request) {
	profile, err := h.analytics.CompanyProfile(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"company": profile.Metrics.Company,
		"risks":   profile.Risks,
	})
}

// GetImprovements returns pillar gaps against the sector with recommendations
func (h *CompanyHandler) GetImprovements(w http.ResponseWriter, r *http.Request) {
	profile, err := h.analytics.CompanyProfile(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"company":      profile.Metrics.Company,
		"improvements": profile.Improvements,
	})
}

// GetHistory returns the company's records across all years
func (h *CompanyHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	profile, err := h.analytics.CompanyProfile(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"company": profile.Metrics.Company,
		"history": profile.History,
	})
}

// RankingsHandler serves top and bottom performer rankings
type RankingsHandler struct {
	analytics    *services.AnalyticsService
	errorHandler *apperrors.ErrorHandler
}

// NewRankingsHandler creates the rankings handler
func NewRankingsHandler(analytics *services.AnalyticsService, errorHandler *apperrors.ErrorHandler) *RankingsHandler {
	return &RankingsHandler{analytics: analytics, errorHandler: errorHandler}
}

// GetRankings returns the top and bottom n companies for a metric
func (h *RankingsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = dataset.MetricTotalESG
	}
	n, err := intParam(r, "n", 10)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if n <= 0 || n > 100 {
		h.errorHandler.HandleError(w, r, apperrors.ValidationError("n", "must be between 1 and 100"))
		return
	}

	top, bottom, err := h.analytics.Rankings(r.Context(), n, metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"metric": metric,
		"top":    top,
		"bottom": bottom,
	})
}
