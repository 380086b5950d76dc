package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/services"
)

// DatasetHandler serves dataset-level endpoints: status, filter values
// and filtered record queries.
type DatasetHandler struct {
	data         *services.DataService
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewDatasetHandler creates the dataset handler
func NewDatasetHandler(data *services.DataService, analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		data:         data,
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/filters", h.GetFilters)
	r.Get("/records", h.GetRecords)
	r.Post("/reload", h.Reload)

	return r
}

// GetSummary returns dataset status plus headline statistics
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analytics.Overview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   h.data.Status(),
		"overview": overview,
	})
}

// GetFilters returns the distinct values available for filtering
func (h *DatasetHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	store, err := h.data.Store()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"companies": store.Companies(),
		"sectors":   store.Sectors(),
		"countries": store.Countries(),
		"years":     store.Years(),
	})
}

// GetRecords returns records matching the query-string filter
func (h *DatasetHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.analytics.Query(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// Reload re-reads the dataset from disk
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.data.Reload(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset reloaded via API")
	render.JSON(w, r, h.data.Status())
}

// filterFromQuery parses the shared filter query parameters
func filterFromQuery(r *http.Request) (dataset.Filter, error) {
	filter := dataset.Filter{
		Companies: splitParam(r.URL.Query().Get("companies")),
		Sectors:   splitParam(r.URL.Query().Get("sectors")),
		Countries: splitParam(r.URL.Query().Get("countries")),
	}

	var err error
	if filter.YearFrom, err = intParam(r, "from", 0); err != nil {
		return dataset.Filter{}, err
	}
	if filter.YearTo, err = intParam(r, "to", 0); err != nil {
		return dataset.Filter{}, err
	}
	return filter, nil
}

// splitParam turns a comma-separated query value into a slice
func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// intParam parses an optional integer query parameter
func intParam(r *http.Request, name string, fallback int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.ValidationError(name, "must be an integer")
	}
	return n, nil
}
