package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/exporter"
	"esglens/internal/services"
)

// ReportHandler serves PDF reports and CSV/XLSX exports
type ReportHandler struct {
	data         *services.DataService
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewReportHandler creates the report handler
func NewReportHandler(data *services.DataService, analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		data:         data,
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/company/{company}", h.GetCompanyReport)
	r.Post("/portfolio", h.PostPortfolioReport)

	return r
}

// GetCompanyReport streams the company PDF report
func (h *ReportHandler) GetCompanyReport(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	includeChart := r.URL.Query().Get("chart") != "false"

	var buf bytes.Buffer
	if err := h.analytics.CompanyReportPDF(r.Context(), &buf, company, includeChart); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	writePDF(w, fmt.Sprintf("esg-report-%s.pdf", sanitizeFilename(company)), &buf)
}

// portfolioRequest is the payload for the portfolio report endpoint
type portfolioRequest struct {
	TopN int `json:"top_n"`
}

// PostPortfolioReport streams the dataset-wide PDF report
func (h *ReportHandler) PostPortfolioReport(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.errorHandler.HandleError(w, r, apperrors.ValidationError("body", "invalid JSON payload"))
			return
		}
	}

	var buf bytes.Buffer
	if err := h.analytics.PortfolioReportPDF(r.Context(), &buf, req.TopN); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	writePDF(w, "esg-portfolio-report.pdf", &buf)
}

// ExportHandler serves CSV and XLSX dataset exports
type ExportHandler struct {
	data         *services.DataService
	analytics    *services.AnalyticsService
	errorHandler *apperrors.ErrorHandler
}

// NewExportHandler creates the export handler
func NewExportHandler(data *services.DataService, analytics *services.AnalyticsService, errorHandler *apperrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{data: data, analytics: analytics, errorHandler: errorHandler}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/csv", h.GetCSV)
	r.Get("/xlsx", h.GetXLSX)
	r.Get("/rankings", h.GetRankingsCSV)
	return r
}

// GetRankingsCSV streams the top-ranked companies for a metric as CSV
func (h *ExportHandler) GetRankingsCSV(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = dataset.MetricTotalESG
	}
	n, err := intParam(r, "n", 10)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	top, _, err := h.analytics.Rankings(r.Context(), n, metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="esg-rankings.csv"`)
	if err := exporter.WriteRankingsCSV(w, top); err != nil {
		h.errorHandler.HandleError(w, r, err)
	}
}

// GetCSV streams the filtered records as CSV
func (h *ExportHandler) GetCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.filteredRecords(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="esg-data.csv"`)
	if err := exporter.WriteRecordsCSV(w, records); err != nil {
		h.errorHandler.HandleError(w, r, err)
	}
}

// GetXLSX streams the filtered records as an XLSX workbook
func (h *ExportHandler) GetXLSX(w http.ResponseWriter, r *http.Request) {
	records, err := h.filteredRecords(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteRecordsXLSX(&buf, records); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="esg-data.xlsx"`)
	buf.WriteTo(w)
}

func (h *ExportHandler) filteredRecords(r *http.Request) ([]dataset.Record, error) {
	filter, err := filterFromQuery(r)
	if err != nil {
		return nil, err
	}
	return h.analytics.Query(r.Context(), filter)
}

func writePDF(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	buf.WriteTo(w)
}

// sanitizeFilename keeps download filenames shell and header safe
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}
