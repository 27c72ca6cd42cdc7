package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"milhier/internal/database"
	"milhier/internal/models"
)

var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrSuggestionReviewed = errors.New("suggestion already reviewed")
)

// SuggestionFilters holds filter parameters for suggestion queries
type SuggestionFilters struct {
	UnitID  string
	Status  string
	Urgency string
	Limit   int
}

// SuggestionRepository handles suggestion database operations
type SuggestionRepository struct {
	db *database.Database
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *database.Database) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// InsertTx inserts a suggestion inside the caller's transaction so that
// trigger-derived suggestions commit atomically with their report.
func (r *SuggestionRepository) InsertTx(tx *database.Tx, s *models.Suggestion) error {
	_, err := tx.Exec(`
		INSERT INTO suggestions (suggestion_id, suggestion_type, urgency, reason, confidence, source_reports, status, unit_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.SuggestionID, s.SuggestionType, s.Urgency, s.Reason, s.Confidence,
		marshalStrings(s.SourceReports), s.Status, s.UnitID, formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}
	return nil
}

// GetByID retrieves a suggestion by ID
func (r *SuggestionRepository) GetByID(id string) (*models.Suggestion, error) {
	row := r.db.QueryRow(`
		SELECT suggestion_id, suggestion_type, urgency, reason, confidence,
		       source_reports, status, unit_id, created_at, reviewed_at, reviewed_by
		FROM suggestions
		WHERE suggestion_id = ?
	`, id)

	s, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	return s, nil
}

// List retrieves suggestions newest first with optional filters
func (r *SuggestionRepository) List(filters SuggestionFilters) ([]models.Suggestion, error) {
	query := `
		SELECT suggestion_id, suggestion_type, urgency, reason, confidence,
		       source_reports, status, unit_id, created_at, reviewed_at, reviewed_by
		FROM suggestions
	`

	var conditions []string
	var args []any
	if filters.UnitID != "" {
		conditions = append(conditions, "unit_id = ?")
		args = append(args, filters.UnitID)
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filters.Status)
	}
	if filters.Urgency != "" {
		conditions = append(conditions, "urgency = ?")
		args = append(args, filters.Urgency)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, *s)
	}

	return suggestions, rows.Err()
}

// Review records an accept/reject decision on a pending suggestion.
// Reviewed suggestions stay immutable.
func (r *SuggestionRepository) Review(id, decision, reviewer string) (*models.Suggestion, error) {
	result, err := r.db.Exec(`
		UPDATE suggestions
		SET status = ?, reviewed_at = ?, reviewed_by = ?
		WHERE suggestion_id = ? AND status = ?
	`, decision, formatTime(time.Now()), reviewer, id, models.SuggestionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to review suggestion: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, ErrSuggestionReviewed
	}

	return r.GetByID(id)
}

func scanSuggestion(row rowScanner) (*models.Suggestion, error) {
	var (
		s             models.Suggestion
		sourceReports string
		unitID        sql.NullString
		createdAt     string
		reviewedAt    sql.NullString
		reviewedBy    sql.NullString
	)
	if err := row.Scan(&s.SuggestionID, &s.SuggestionType, &s.Urgency, &s.Reason,
		&s.Confidence, &sourceReports, &s.Status, &unitID, &createdAt,
		&reviewedAt, &reviewedBy); err != nil {
		return nil, err
	}
	s.SourceReports = unmarshalStrings(sourceReports)
	s.UnitID = stringPtr(unitID)
	s.CreatedAt = parseTime(createdAt)
	s.ReviewedAt = parseTimePtr(reviewedAt)
	s.ReviewedBy = stringPtr(reviewedBy)
	return &s, nil
}
