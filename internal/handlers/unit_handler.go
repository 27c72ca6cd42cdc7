package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"milhier/internal/models"
	"milhier/internal/repository"
	"milhier/internal/service"
)

// UnitHandler handles unit management requests
type UnitHandler struct {
	unitRepo    *repository.UnitRepository
	soldierRepo *repository.SoldierRepository
	hierarchy   *service.HierarchyService
}

// NewUnitHandler creates a new unit handler
func NewUnitHandler(unitRepo *repository.UnitRepository, soldierRepo *repository.SoldierRepository, hierarchy *service.HierarchyService) *UnitHandler {
	return &UnitHandler{unitRepo: unitRepo, soldierRepo: soldierRepo, hierarchy: hierarchy}
}

// Create creates a new unit
// @Summary Create unit
// @Description Create a new unit in the hierarchy
// @Tags Units
// @Accept json
// @Produce json
// @Param request body object true "Unit (name, level, parent_unit_id)"
// @Success 201 {object} models.Unit "Created unit"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Parent unit not found"
// @Router /units [post]
func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UnitID       string  `json:"unit_id"`
		Name         string  `json:"name"`
		Level        string  `json:"level"`
		ParentUnitID *string `json:"parent_unit_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Level == "" {
		respondWithError(w, http.StatusBadRequest, "level is required")
		return
	}

	unit := &models.Unit{
		UnitID:       req.UnitID,
		Name:         req.Name,
		Level:        req.Level,
		ParentUnitID: req.ParentUnitID,
		CreatedAt:    time.Now(),
	}
	if unit.UnitID == "" {
		unit.UnitID = uuid.New().String()
	}

	if err := h.unitRepo.Create(unit); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, unit)
}

// GetAll lists all units
// @Summary List units
// @Description List all units ordered by level and name
// @Tags Units
// @Produce json
// @Success 200 {array} models.Unit "Units"
// @Router /units [get]
func (h *UnitHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	units, err := h.unitRepo.GetAll()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, units)
}

// Get retrieves a single unit
// @Summary Get unit
// @Description Get a unit by ID
// @Tags Units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} models.Unit "Unit"
// @Failure 404 {object} map[string]string "Unit not found"
// @Router /units/{id} [get]
func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	unit, err := h.unitRepo.GetByID(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, unit)
}

// Delete removes a unit without dependents
// @Summary Delete unit
// @Description Delete a unit. Rejected while soldiers or subunits reference it.
// @Tags Units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Unit not found"
// @Failure 409 {object} map[string]string "Unit has dependents"
// @Router /units/{id} [delete]
func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.unitRepo.Delete(r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Unit deleted"})
}

// Soldiers lists the soldiers assigned to a unit
// @Summary List unit soldiers
// @Description List all soldiers assigned to a unit
// @Tags Units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {array} models.Soldier "Soldiers"
// @Failure 404 {object} map[string]string "Unit not found"
// @Router /units/{id}/soldiers [get]
func (h *UnitHandler) Soldiers(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.unitRepo.GetByID(id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	soldiers, err := h.soldierRepo.GetByUnit(id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, soldiers)
}

// Hierarchy returns the unit tree with soldiers
// @Summary Get hierarchy
// @Description Get the full unit tree with soldiers attached to each unit
// @Tags Units
// @Produce json
// @Success 200 {array} models.UnitNode "Root units"
// @Router /hierarchy [get]
func (h *UnitHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := h.hierarchy.Tree()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tree)
}
