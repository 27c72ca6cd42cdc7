package handlers

import (
	"encoding/json"
	"net/http"

	"milhier/internal/repository"
	"milhier/internal/service"
)

// AIHandler handles report summarization requests
type AIHandler struct {
	llmSvc    *service.LLMService
	reportSvc *service.ReportService
	unitRepo  *repository.UnitRepository
}

// NewAIHandler creates a new AI handler
func NewAIHandler(llmSvc *service.LLMService, reportSvc *service.ReportService, unitRepo *repository.UnitRepository) *AIHandler {
	return &AIHandler{llmSvc: llmSvc, reportSvc: reportSvc, unitRepo: unitRepo}
}

// Summarize produces a tactical summary of a unit's recent reports
// @Summary Summarize reports
// @Description Summarize a unit's most recent reports with the language model. Degrades to a fallback message when the model is unavailable.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body object true "Summary request (unit_id, limit)"
// @Success 200 {object} map[string]interface{} "Summary"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unit not found"
// @Router /ai/summarize [post]
func (h *AIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UnitID string `json:"unit_id"`
		Limit  int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.UnitID == "" {
		respondWithError(w, http.StatusBadRequest, "unit_id is required")
		return
	}

	unit, err := h.unitRepo.GetByID(req.UnitID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	reports, err := h.reportSvc.List(repository.ReportFilters{UnitID: unit.UnitID, Limit: req.Limit})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	summary, degraded := h.llmSvc.SummarizeReports(unit.Name, reports)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"unit_id":      unit.UnitID,
		"unit_name":    unit.Name,
		"report_count": len(reports),
		"summary":      summary,
		"degraded":     degraded,
	})
}
