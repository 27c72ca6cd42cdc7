package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"milhier/internal/models"
	"milhier/internal/repository"
)

// SoldierHandler handles soldier management requests
type SoldierHandler struct {
	soldierRepo  *repository.SoldierRepository
	rawInputRepo *repository.RawInputRepository
}

// NewSoldierHandler creates a new soldier handler
func NewSoldierHandler(soldierRepo *repository.SoldierRepository, rawInputRepo *repository.RawInputRepository) *SoldierHandler {
	return &SoldierHandler{soldierRepo: soldierRepo, rawInputRepo: rawInputRepo}
}

// Create registers a new soldier
// @Summary Create soldier
// @Description Register a soldier in a unit
// @Tags Soldiers
// @Accept json
// @Produce json
// @Param request body object true "Soldier (name, rank, unit_id, device_id)"
// @Success 201 {object} models.Soldier "Created soldier"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unit not found"
// @Router /soldiers [post]
func (h *SoldierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SoldierID string  `json:"soldier_id"`
		Name      string  `json:"name"`
		Rank      string  `json:"rank"`
		UnitID    string  `json:"unit_id"`
		DeviceID  *string `json:"device_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.UnitID == "" {
		respondWithError(w, http.StatusBadRequest, "unit_id is required")
		return
	}

	soldier := &models.Soldier{
		SoldierID: req.SoldierID,
		Name:      req.Name,
		Rank:      req.Rank,
		UnitID:    req.UnitID,
		DeviceID:  req.DeviceID,
		Status:    "active",
	}
	if soldier.SoldierID == "" {
		soldier.SoldierID = uuid.New().String()
	}

	if err := h.soldierRepo.Create(soldier); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, soldier)
}

// GetAll lists all soldiers
// @Summary List soldiers
// @Description List all soldiers with their unit names
// @Tags Soldiers
// @Produce json
// @Success 200 {array} models.Soldier "Soldiers"
// @Router /soldiers [get]
func (h *SoldierHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	soldiers, err := h.soldierRepo.GetAll()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, soldiers)
}

// Get retrieves a single soldier
// @Summary Get soldier
// @Description Get a soldier by ID
// @Tags Soldiers
// @Produce json
// @Param id path string true "Soldier ID"
// @Success 200 {object} models.Soldier "Soldier"
// @Failure 404 {object} map[string]string "Soldier not found"
// @Router /soldiers/{id} [get]
func (h *SoldierHandler) Get(w http.ResponseWriter, r *http.Request) {
	soldier, err := h.soldierRepo.GetByID(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, soldier)
}

// UpdateStatus changes a soldier's status
// @Summary Update soldier status
// @Description Set a soldier's status and refresh last seen
// @Tags Soldiers
// @Accept json
// @Produce json
// @Param id path string true "Soldier ID"
// @Param request body object true "Status (status)"
// @Success 200 {object} models.Soldier "Updated soldier"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Soldier not found"
// @Router /soldiers/{id}/status [put]
func (h *SoldierHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Status == "" {
		respondWithError(w, http.StatusBadRequest, "status is required")
		return
	}

	id := r.PathValue("id")
	if err := h.soldierRepo.UpdateStatus(id, req.Status); err != nil {
		respondWithServiceError(w, err)
		return
	}

	soldier, err := h.soldierRepo.GetByID(id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, soldier)
}

// Delete removes a soldier without dependents
// @Summary Delete soldier
// @Description Delete a soldier. Rejected while reports or raw inputs reference them.
// @Tags Soldiers
// @Produce json
// @Param id path string true "Soldier ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Soldier not found"
// @Failure 409 {object} map[string]string "Soldier has dependents"
// @Router /soldiers/{id} [delete]
func (h *SoldierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.soldierRepo.Delete(r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Soldier deleted"})
}

// CreateRawInput stores a raw transmission from a soldier device
// @Summary Create raw input
// @Description Store an unprocessed voice or text transmission for a soldier
// @Tags Soldiers
// @Accept json
// @Produce json
// @Param id path string true "Soldier ID"
// @Param request body object true "Raw input (raw_text, input_type, confidence, location_ref)"
// @Success 201 {object} models.RawInput "Created input"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Soldier not found"
// @Router /soldiers/{id}/raw_inputs [post]
func (h *SoldierHandler) CreateRawInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RawText     string  `json:"raw_text"`
		RawAudioRef *string `json:"raw_audio_ref"`
		InputType   string  `json:"input_type"`
		Confidence  float64 `json:"confidence"`
		LocationRef *string `json:"location_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	input := &models.RawInput{
		InputID:     uuid.New().String(),
		SoldierID:   r.PathValue("id"),
		Timestamp:   time.Now(),
		RawText:     req.RawText,
		RawAudioRef: req.RawAudioRef,
		InputType:   req.InputType,
		Confidence:  req.Confidence,
		LocationRef: req.LocationRef,
	}

	if err := h.rawInputRepo.Create(input); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, input)
}

// GetRawInputs lists a soldier's raw transmissions
// @Summary List raw inputs
// @Description List a soldier's raw transmissions, newest first
// @Tags Soldiers
// @Produce json
// @Param id path string true "Soldier ID"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.RawInput "Raw inputs"
// @Failure 404 {object} map[string]string "Soldier not found"
// @Router /soldiers/{id}/raw_inputs [get]
func (h *SoldierHandler) GetRawInputs(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.soldierRepo.GetByID(id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	inputs, err := h.rawInputRepo.GetBySoldier(id, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, inputs)
}
