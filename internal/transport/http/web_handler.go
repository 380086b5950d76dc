package http

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	apperrors "esglens/internal/errors"
	"esglens/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// WebHandler serves the dashboard HTML shell
type WebHandler struct {
	data      *services.DataService
	analytics *services.AnalyticsService
	tmpl      *template.Template
	logger    *slog.Logger
}

// NewWebHandler creates the dashboard page handler
func NewWebHandler(data *services.DataService, analytics *services.AnalyticsService, logger *slog.Logger) (*WebHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &WebHandler{
		data:      data,
		analytics: analytics,
		tmpl:      tmpl,
		logger:    logger.With(slog.String("component", "web_handler")),
	}, nil
}

// dashboardData feeds the dashboard template
type dashboardData struct {
	Theme     string
	Status    services.Status
	Companies []string
	Sectors   []string
	Metrics   []string
}

// GetDashboard renders the single-page dashboard shell
func (h *WebHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	theme := r.URL.Query().Get("theme")
	if theme != "dark" {
		theme = "light"
	}

	data := dashboardData{
		Theme:  theme,
		Status: h.data.Status(),
	}

	if store, err := h.data.Store(); err == nil {
		data.Companies = store.Companies()
		data.Sectors = store.Sectors()
	} else if !errors.Is(err, apperrors.ErrDatasetNotLoaded) {
		h.logger.ErrorContext(r.Context(), "dashboard store access", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.logger.ErrorContext(r.Context(), "render dashboard", slog.String("error", err.Error()))
	}
}
