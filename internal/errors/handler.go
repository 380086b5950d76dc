package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("stack", string(debug.Stack()))
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	instance := r.URL.Path

	// Context errors first
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process",
			instance,
		)
	}
	if errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			499, // client closed request
			TypeTimeout,
			"Request Cancelled",
			"The request was cancelled",
			instance,
		)
	}

	// Sentinel domain errors
	switch {
	case errors.Is(err, ErrCompanyNotFound), errors.Is(err, ErrSectorNotFound):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNotFound,
			"Not Found",
			err.Error(),
			instance,
		)
	case errors.Is(err, ErrMetricUnknown):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeValidation,
			"Invalid Parameter",
			err.Error(),
			instance,
		)
	case errors.Is(err, ErrDatasetNotLoaded), errors.Is(err, ErrEmptyDataset):
		return NewProblemDetails(
			http.StatusServiceUnavailable,
			TypeServiceDown,
			"Dataset Unavailable",
			err.Error(),
			instance,
		)
	}

	// Typed application errors
	var appErr *AppError
	if errors.As(err, &appErr) {
		problem := appErrToProblem(appErr, instance)
		for k, v := range appErr.Context {
			problem.WithExtension(k, v)
		}
		return problem
	}

	// Fallback: internal error without leaking details
	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		instance,
	)
}

// appErrToProblem maps AppError categories to HTTP problem responses
func appErrToProblem(appErr *AppError, instance string) *ProblemDetails {
	switch appErr.Type {
	case ErrTypeValidation:
		return NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", appErr.Message, instance)
	case ErrTypeNotFound:
		return NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", appErr.Message, instance)
	case ErrTypeParsing:
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeParsing, "Unprocessable Input", appErr.Message, instance)
	case ErrTypeStorage, ErrTypeConfig:
		return NewProblemDetails(http.StatusServiceUnavailable, TypeServiceDown, "Service Unavailable", appErr.Message, instance)
	default:
		return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", appErr.Message, instance)
	}
}
