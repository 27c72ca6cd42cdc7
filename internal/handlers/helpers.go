package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"milhier/internal/database"
	"milhier/internal/repository"
	"milhier/internal/service"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Content-Type must be set before the status line is written
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := JSONResponse(w, payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service and repository errors onto status
// codes: invalid input to 400, missing records to 404, state conflicts to
// 409, an unreachable database to 503, anything else to 500.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, repository.ErrUnitNotFound),
		errors.Is(err, repository.ErrSoldierNotFound),
		errors.Is(err, repository.ErrReportNotFound),
		errors.Is(err, repository.ErrSuggestionNotFound),
		errors.Is(err, repository.ErrDocumentNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrUnitHasDependents),
		errors.Is(err, repository.ErrSoldierHasDependents),
		errors.Is(err, repository.ErrSuggestionReviewed):
		respondWithError(w, http.StatusConflict, err.Error())
	case database.IsUnavailable(err):
		respondWithError(w, http.StatusServiceUnavailable, "Database unavailable")
	default:
		slog.Error("Request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
