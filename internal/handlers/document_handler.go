package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"milhier/internal/repository"
	"milhier/internal/service"
)

// DocumentHandler handles staff document requests
type DocumentHandler struct {
	documentSvc *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentSvc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc}
}

// Generate creates a draft document
// @Summary Generate document
// @Description Generate a numbered draft document (FRAGO, CASEVAC, EOINCREP or OPORD) from the given fields
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body service.GenerateDocumentInput true "Document payload"
// @Success 201 {object} models.GeneratedDocument "Draft document"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unit not found"
// @Router /documents [post]
func (h *DocumentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input service.GenerateDocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	doc, err := h.documentSvc.Generate(input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, doc)
}

// Finalize marks a draft document final
// @Summary Finalize document
// @Description Apply final fields to a draft and mark it final. Already final documents are returned unchanged.
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body object true "Final fields (final_fields)"
// @Success 200 {object} models.GeneratedDocument "Final document"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id}/finalize [post]
func (h *DocumentHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FinalFields map[string]string `json:"final_fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	doc, err := h.documentSvc.Finalize(r.PathValue("id"), req.FinalFields)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

// Get retrieves a single document
// @Summary Get document
// @Description Get a document by ID
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} models.GeneratedDocument "Document"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documentSvc.Get(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

// List retrieves documents
// @Summary List documents
// @Description List documents newest first, optionally filtered by unit or type
// @Tags Documents
// @Produce json
// @Param unit_id query string false "Filter by unit"
// @Param doc_type query string false "Filter by document type"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.GeneratedDocument "Documents"
// @Router /documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	docs, err := h.documentSvc.List(repository.DocumentFilters{
		UnitID:  r.URL.Query().Get("unit_id"),
		DocType: r.URL.Query().Get("doc_type"),
		Limit:   limit,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, docs)
}
