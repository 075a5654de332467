package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/apperrors"
	"github.com/meridianfp/advisor-engine/pkg/models"
	"github.com/meridianfp/advisor-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// RecommendationListResponse for GET /api/users/{uid}/recommendations
type RecommendationListResponse struct {
	Recommendations []*models.Recommendation `json:"recommendations"`
	Total           int                      `json:"total"`
}

// DismissRequest for POST /api/recommendations/{rid}/dismiss
type DismissRequest struct {
	Reason string `json:"reason,omitempty"`
}

// HistoryResponse for GET /api/users/{uid}/recommendations/history
type HistoryResponse struct {
	Actions []*models.UserAction `json:"actions"`
	Total   int                  `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// RecommendationsHandler handles recommendation HTTP requests.
type RecommendationsHandler struct {
	service services.RecommendationService
	logger  *zap.Logger
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(service services.RecommendationService, logger *zap.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *RecommendationsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users/{uid}/recommendations/generate", h.Generate)
	mux.HandleFunc("POST /api/users/{uid}/recommendations/recalculate", h.Generate)
	mux.HandleFunc("GET /api/users/{uid}/recommendations", h.List)
	mux.HandleFunc("GET /api/users/{uid}/recommendations/history", h.History)
	mux.HandleFunc("POST /api/recommendations/{rid}/view", h.action(models.ActionViewed))
	mux.HandleFunc("POST /api/recommendations/{rid}/accept", h.action(models.ActionAccepted))
	mux.HandleFunc("POST /api/recommendations/{rid}/complete", h.action(models.ActionCompleted))
	mux.HandleFunc("POST /api/recommendations/{rid}/dismiss", h.Dismiss)
}

// Generate handles POST /api/users/{uid}/recommendations/generate and
// the recalculate alias. Both run the same pipeline; recalculation is
// just an explicit regeneration trigger.
func (h *RecommendationsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	set, err := h.service.Generate(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to generate recommendations",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		h.writeServiceError(w, err, "generate_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, set); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/users/{uid}/recommendations with an optional
// status query parameter.
func (h *RecommendationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	var status *models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := models.ParseStatus(raw)
		if !ok {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_status", "Unknown status filter"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		status = &parsed
	}

	recs, err := h.service.List(r.Context(), userID, status)
	if err != nil {
		h.logger.Error("Failed to list recommendations",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		h.writeServiceError(w, err, "list_failed")
		return
	}

	response := RecommendationListResponse{
		Recommendations: recs,
		Total:           len(recs),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// History handles GET /api/users/{uid}/recommendations/history.
func (h *RecommendationsHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := ParseUserID(w, r, h.logger)
	if !ok {
		return
	}

	actions, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load action history",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		h.writeServiceError(w, err, "history_failed")
		return
	}

	response := HistoryResponse{
		Actions: actions,
		Total:   len(actions),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// action builds a handler for the fixed-verb transitions (view, accept,
// complete). Dismiss has its own handler because it carries a reason.
func (h *RecommendationsHandler) action(action models.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.transition(w, r, action, "")
	}
}

// Dismiss handles POST /api/recommendations/{rid}/dismiss.
func (h *RecommendationsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var req DismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	h.transition(w, r, models.ActionDismissed, req.Reason)
}

func (h *RecommendationsHandler) transition(w http.ResponseWriter, r *http.Request, action models.ActionType, notes string) {
	recID, ok := ParseRecommendationID(w, r, h.logger)
	if !ok {
		return
	}

	rec, err := h.service.Transition(r.Context(), recID, action, notes)
	if err != nil {
		h.logger.Error("Failed to transition recommendation",
			zap.String("recommendation_id", recID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
		h.writeServiceError(w, err, "transition_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, rec); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeServiceError maps service-layer sentinel errors to HTTP status
// codes.
func (h *RecommendationsHandler) writeServiceError(w http.ResponseWriter, err error, fallbackCode string) {
	var status int
	var code string
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		status, code = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, apperrors.ErrGenerationInProgress):
		status, code = http.StatusConflict, "generation_in_progress"
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		status, code = http.StatusBadGateway, "upstream_unavailable"
	default:
		status, code = http.StatusInternalServerError, fallbackCode
	}

	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
