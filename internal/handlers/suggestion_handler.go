package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"milhier/internal/repository"
	"milhier/internal/service"
)

// SuggestionHandler handles suggestion review requests
type SuggestionHandler struct {
	suggestionSvc *service.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestionSvc *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionSvc: suggestionSvc}
}

// List retrieves suggestions
// @Summary List suggestions
// @Description List suggestions newest first, optionally filtered by unit, status or urgency
// @Tags Suggestions
// @Produce json
// @Param unit_id query string false "Filter by unit"
// @Param status query string false "Filter by status (pending, accepted, rejected)"
// @Param urgency query string false "Filter by urgency"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.Suggestion "Suggestions"
// @Router /suggestions [get]
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	suggestions, err := h.suggestionSvc.List(repository.SuggestionFilters{
		UnitID:  r.URL.Query().Get("unit_id"),
		Status:  r.URL.Query().Get("status"),
		Urgency: r.URL.Query().Get("urgency"),
		Limit:   limit,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, suggestions)
}

// Get retrieves a single suggestion
// @Summary Get suggestion
// @Description Get a suggestion by ID
// @Tags Suggestions
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} models.Suggestion "Suggestion"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Router /suggestions/{id} [get]
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.suggestionSvc.Get(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, suggestion)
}

// Review accepts or rejects a pending suggestion
// @Summary Review suggestion
// @Description Record an accept or reject decision. Reviewed suggestions are immutable.
// @Tags Suggestions
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param request body object true "Decision (decision, reviewed_by)"
// @Success 200 {object} models.Suggestion "Reviewed suggestion"
// @Failure 400 {object} map[string]string "Invalid decision"
// @Failure 404 {object} map[string]string "Suggestion not found"
// @Failure 409 {object} map[string]string "Already reviewed"
// @Router /suggestions/{id}/review [post]
func (h *SuggestionHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision   string `json:"decision"`
		ReviewedBy string `json:"reviewed_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	suggestion, err := h.suggestionSvc.Review(r.PathValue("id"), req.Decision, req.ReviewedBy)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, suggestion)
}
