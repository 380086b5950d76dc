package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "esglens/internal/errors"
	"esglens/internal/services"
	"esglens/internal/simulator"
)

// SimulatorHandler serves the what-if simulation endpoints
type SimulatorHandler struct {
	analytics    *services.AnalyticsService
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewSimulatorHandler creates the simulator handler
func NewSimulatorHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *SimulatorHandler {
	return &SimulatorHandler{
		analytics:    analytics,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "simulator_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the simulator routes
func (h *SimulatorHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/improvements", h.PostImprovements)
	r.Post("/trajectory", h.PostTrajectory)
	r.Post("/recommendations", h.PostRecommendations)
	r.Post("/match-sector", h.PostMatchSector)

	return r
}

// improvementsRequest is the payload for the improvements and trajectory endpoints
type improvementsRequest struct {
	Company       string  `json:"company" validate:"required"`
	Environmental float64 `json:"environmental" validate:"gte=0,lte=100"`
	Social        float64 `json:"social" validate:"gte=0,lte=100"`
	Governance    float64 `json:"governance" validate:"gte=0,lte=100"`
	Years         int     `json:"years" validate:"gte=0,lte=30"`
}

// recommendationsRequest is the payload for the recommendations endpoint
type recommendationsRequest struct {
	Company     string  `json:"company" validate:"required"`
	TargetScore float64 `json:"target_score" validate:"required,gt=0,lte=100"`
}

// matchSectorRequest is the payload for the match-sector endpoint
type matchSectorRequest struct {
	Company string `json:"company" validate:"required"`
}

// decodeAndValidate decodes a JSON body and runs struct validation
func (h *SimulatorHandler) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return apperrors.ValidationError("body", "invalid JSON payload")
	}
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return apperrors.ValidationError(first.Field(), fmt.Sprintf("failed %q validation", first.Tag()))
		}
		return apperrors.ValidationError("body", "payload validation failed")
	}
	return nil
}

// PostImprovements applies percentage improvements to the company's latest scores
func (h *SimulatorHandler) PostImprovements(w http.ResponseWriter, r *http.Request) {
	var req improvementsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.analytics.Simulate(r.Context(), services.SimulationInput{
		Company:      req.Company,
		Improvements: req.improvements(),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

// PostTrajectory projects scores over the requested number of years
func (h *SimulatorHandler) PostTrajectory(w http.ResponseWriter, r *http.Request) {
	var req improvementsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if req.Years == 0 {
		req.Years = 5
	}

	out, err := h.analytics.Simulate(r.Context(), services.SimulationInput{
		Company:      req.Company,
		Improvements: req.improvements(),
		Years:        req.Years,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"company":    out.Company,
		"trajectory": out.Trajectory,
	})
}

// PostRecommendations computes per-pillar improvements to reach a target score
func (h *SimulatorHandler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.analytics.Simulate(r.Context(), services.SimulationInput{
		Company:     req.Company,
		TargetScore: req.TargetScore,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"company":         out.Company,
		"recommendations": out.Recommendations,
	})
}

// PostMatchSector simulates raising trailing pillars to the sector average
func (h *SimulatorHandler) PostMatchSector(w http.ResponseWriter, r *http.Request) {
	var req matchSectorRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.analytics.MatchSector(r.Context(), req.Company)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

func (req improvementsRequest) improvements() simulator.Improvements {
	return simulator.Improvements{
		Environmental: req.Environmental,
		Social:        req.Social,
		Governance:    req.Governance,
	}
}
