package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"milhier/internal/database"
	"milhier/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

// ReportFilters holds filter parameters for report queries
type ReportFilters struct {
	SoldierID string
	UnitID    string
	Limit     int
}

// ReportRepository handles report database operations
type ReportRepository struct {
	db *database.Database
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.Database) *ReportRepository {
	return &ReportRepository{db: db}
}

// InsertTx inserts a report inside the caller's transaction. Report
// creation is transactional with suggestion persistence, so the insert
// never commits on its own.
func (r *ReportRepository) InsertTx(tx *database.Tx, report *models.Report) error {
	_, err := tx.Exec(`
		INSERT INTO reports (report_id, soldier_id, unit_id, timestamp, report_type, structured_json, confidence, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ReportID, report.SoldierID, report.UnitID, formatTime(report.Timestamp),
		report.ReportType, report.StructuredJSON, report.Confidence, report.Status)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(id string) (*models.Report, error) {
	row := r.db.QueryRow(`
		SELECT r.report_id, r.soldier_id, r.unit_id, r.timestamp, r.report_type,
		       r.structured_json, r.confidence, r.status, s.name AS soldier_name, u.name AS unit_name
		FROM reports r
		JOIN soldiers s ON r.soldier_id = s.soldier_id
		JOIN units u ON r.unit_id = u.unit_id
		WHERE r.report_id = ?
	`, id)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// List retrieves reports newest first, optionally filtered by soldier or unit
func (r *ReportRepository) List(filters ReportFilters) ([]models.Report, error) {
	query := `
		SELECT r.report_id, r.soldier_id, r.unit_id, r.timestamp, r.report_type,
		       r.structured_json, r.confidence, r.status, s.name AS soldier_name, u.name AS unit_name
		FROM reports r
		JOIN soldiers s ON r.soldier_id = s.soldier_id
		JOIN units u ON r.unit_id = u.unit_id
	`

	var conditions []string
	var args []any
	if filters.SoldierID != "" {
		conditions = append(conditions, "r.soldier_id = ?")
		args = append(args, filters.SoldierID)
	}
	if filters.UnitID != "" {
		conditions = append(conditions, "r.unit_id = ?")
		args = append(args, filters.UnitID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 500
	}
	query += " ORDER BY r.timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}

	return reports, rows.Err()
}

// MissingIDs returns which of the given report ids do not exist
func (r *ReportRepository) MissingIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(`SELECT report_id FROM reports WHERE report_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check report ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func scanReport(row rowScanner) (*models.Report, error) {
	var (
		report    models.Report
		timestamp string
	)
	if err := row.Scan(&report.ReportID, &report.SoldierID, &report.UnitID, &timestamp,
		&report.ReportType, &report.StructuredJSON, &report.Confidence, &report.Status,
		&report.SoldierName, &report.UnitName); err != nil {
		return nil, err
	}
	report.Timestamp = parseTime(timestamp)
	return &report, nil
}
