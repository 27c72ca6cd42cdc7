package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"milhier/internal/repository"
	"milhier/internal/service"
)

// ReportHandler handles structured report requests
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Create submits a structured report for a soldier
// @Summary Create report
// @Description Submit a structured report. Trigger analysis runs on the payload and any resulting suggestions are returned with the report.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Soldier ID"
// @Param request body service.CreateReportInput true "Report payload"
// @Success 201 {object} map[string]interface{} "Created report and suggestions"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Soldier not found"
// @Router /soldiers/{id}/reports [post]
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	report, suggestions, err := h.reportSvc.Create(r.PathValue("id"), input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"report":      report,
		"suggestions": suggestions,
	})
}

// List retrieves reports
// @Summary List reports
// @Description List reports newest first, optionally filtered by soldier or unit
// @Tags Reports
// @Produce json
// @Param soldier_id query string false "Filter by soldier"
// @Param unit_id query string false "Filter by unit"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.Report "Reports"
// @Router /reports [get]
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := h.reportSvc.List(repository.ReportFilters{
		SoldierID: r.URL.Query().Get("soldier_id"),
		UnitID:    r.URL.Query().Get("unit_id"),
		Limit:     limit,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}

// ListBySoldier retrieves one soldier's reports
// @Summary List soldier reports
// @Description List a soldier's reports, newest first
// @Tags Reports
// @Produce json
// @Param id path string true "Soldier ID"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.Report "Reports"
// @Router /soldiers/{id}/reports [get]
func (h *ReportHandler) ListBySoldier(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := h.reportSvc.List(repository.ReportFilters{
		SoldierID: r.PathValue("id"),
		Limit:     limit,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}

// Get retrieves a single report
// @Summary Get report
// @Description Get a report by ID
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} models.Report "Report"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportSvc.Get(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
