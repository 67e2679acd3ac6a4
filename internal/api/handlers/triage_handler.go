package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/medikita/triage-ai/internal/application/services"
	apperrors "github.com/medikita/triage-ai/pkg/errors"
)

const maxComplaintLength = 2000

// TriageRequest is the request body shared by the triage endpoints.
type TriageRequest struct {
	Complaint string `json:"complaint"`
}

// TriageHandler handles triage-related HTTP requests
type TriageHandler struct {
	triage    *services.TriageService
	narrative *services.NarrativeService
	engine    *services.UrgencyEngine
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(
	triage *services.TriageService,
	narrative *services.NarrativeService,
	engine *services.UrgencyEngine,
) *TriageHandler {
	return &TriageHandler{
		triage:    triage,
		narrative: narrative,
		engine:    engine,
	}
}

// Triage handles POST /api/v1/triage
func (h *TriageHandler) Triage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeComplaint(w, r)
	if !ok {
		return
	}

	decision, err := h.triage.Triage(r.Context(), req.Complaint)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, decision)
}

// AnalyzeSymptoms handles POST /api/v1/analyze-symptoms
func (h *TriageHandler) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeComplaint(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.triage.ExtractOnly(r.Context(), req.Complaint))
}

// CheckUrgency handles POST /api/v1/check-urgency
func (h *TriageHandler) CheckUrgency(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeComplaint(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.triage.UrgencyOnly(r.Context(), req.Complaint))
}

// ListCategories handles GET /api/v1/categories
func (h *TriageHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.triage.Categories()
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// NarrativeStats handles GET /api/v1/llm/stats
func (h *TriageHandler) NarrativeStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.narrative.Stats(r.Context()))
}

// Health handles GET /health
func (h *TriageHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"model_loaded":  h.triage.Ready(),
		"llm_available": h.narrative.IsAvailable(),
		"rules_loaded":  h.engine.RuleCount(),
	})
}

func (h *TriageHandler) decodeComplaint(w http.ResponseWriter, r *http.Request) (*TriageRequest, bool) {
	var req TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.Complaint == "" {
		respondWithError(w, http.StatusBadRequest, "complaint is required")
		return nil, false
	}
	if utf8.RuneCountInString(req.Complaint) > maxComplaintLength {
		respondWithError(w, http.StatusBadRequest, "complaint exceeds maximum length")
		return nil, false
	}
	return &req, true
}

// respondWithAppError maps application errors to HTTP status codes.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeModelNotReady:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
