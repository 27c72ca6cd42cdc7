package service

import (
	"milhier/internal/models"
	"milhier/internal/repository"
)

// SuggestionService manages review of trigger-generated suggestions
type SuggestionService struct {
	suggestions *repository.SuggestionRepository
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(suggestions *repository.SuggestionRepository) *SuggestionService {
	return &SuggestionService{suggestions: suggestions}
}

// Get retrieves a suggestion by ID
func (s *SuggestionService) Get(id string) (*models.Suggestion, error) {
	return s.suggestions.GetByID(id)
}

// List retrieves suggestions with the given filters
func (s *SuggestionService) List(filters repository.SuggestionFilters) ([]models.Suggestion, error) {
	return s.suggestions.List(filters)
}

// Review records an accept or reject decision on a pending suggestion
func (s *SuggestionService) Review(id, decision, reviewer string) (*models.Suggestion, error) {
	if decision != models.SuggestionAccepted && decision != models.SuggestionRejected {
		return nil, validationErr("decision", "must be accepted or rejected")
	}
	return s.suggestions.Review(id, decision, reviewer)
}
