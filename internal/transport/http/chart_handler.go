package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/services"
	"esglens/internal/simulator"
)

// ChartHandler serves rendered PNG charts
type ChartHandler struct {
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewChartHandler creates the chart handler
func NewChartHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{kind}", h.GetChart)
	return r
}

// GetChart renders the requested chart kind as PNG.
// Chart parameters arrive via query string: company, metric, companies, n,
// and per-pillar improvement percentages for the projection kind.
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	ctx := r.Context()
	query := r.URL.Query()

	// Render into a buffer first so errors can still produce a problem
	// response instead of a truncated image
	var buf bytes.Buffer
	var err error

	switch kind {
	case "trend":
		err = h.analytics.TrendChartPNG(ctx, &buf, query.Get("company"))
	case "breakdown":
		err = h.analytics.BreakdownChartPNG(ctx, &buf, query.Get("company"))
	case "sector":
		err = h.analytics.SectorChartPNG(ctx, &buf)
	case "scatter":
		err = h.analytics.ScatterChartPNG(ctx, &buf)
	case "carbon":
		var n int
		if n, err = intParam(r, "n", 10); err == nil {
			err = h.analytics.CarbonChartPNG(ctx, &buf, n)
		}
	case "comparison":
		metric := query.Get("metric")
		if metric == "" {
			metric = dataset.MetricTotalESG
		}
		err = h.analytics.ComparisonChartPNG(ctx, &buf, metric, splitParam(query.Get("companies")))
	case "projection":
		var improvements simulator.Improvements
		if improvements, err = improvementsFromQuery(r); err == nil {
			err = h.analytics.ProjectionChartPNG(ctx, &buf, query.Get("company"), improvements)
		}
	default:
		err = apperrors.ValidationError("kind", "unknown chart kind: "+kind)
	}

	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(ctx, "write chart response", slog.String("kind", kind), slog.String("error", err.Error()))
	}
}

// improvementsFromQuery parses per-pillar improvement percentages from the
// query string, for the projection chart
func improvementsFromQuery(r *http.Request) (simulator.Improvements, error) {
	var improvements simulator.Improvements
	var err error
	if improvements.Environmental, err = floatParam(r, "environmental"); err != nil {
		return simulator.Improvements{}, err
	}
	if improvements.Social, err = floatParam(r, "social"); err != nil {
		return simulator.Improvements{}, err
	}
	if improvements.Governance, err = floatParam(r, "governance"); err != nil {
		return simulator.Improvements{}, err
	}
	return improvements, nil
}

// floatParam parses an optional float query parameter, zero when absent
func floatParam(r *http.Request, name string) (float64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, apperrors.ValidationError(name, "must be a number")
	}
	return v, nil
}
