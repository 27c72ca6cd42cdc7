package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"milhier/internal/database"
	"milhier/internal/models"
	"milhier/internal/repository"
	"milhier/internal/trigger"
)

var validReportTypes = map[string]bool{
	models.ReportTypeSITREP:       true,
	models.ReportTypeContact:      true,
	models.ReportTypeCasualty:     true,
	models.ReportTypeIntelligence: true,
	models.ReportTypeLogstat:      true,
}

// CreateReportInput is the payload for submitting a report. The structured
// fields arrive as raw JSON and are stored without interpretation; TextContent
// is an optional free-form transcript used only for trigger analysis.
type CreateReportInput struct {
	ReportType     string          `json:"report_type"`
	StructuredJSON json.RawMessage `json:"structured_json"`
	Confidence     float64         `json:"confidence"`
	TextContent    string          `json:"text_content"`
}

// ReportService creates reports and runs trigger analysis over them
type ReportService struct {
	db          *database.Database
	reports     *repository.ReportRepository
	soldiers    *repository.SoldierRepository
	suggestions *repository.SuggestionRepository
}

// NewReportService creates a new report service
func NewReportService(db *database.Database, reports *repository.ReportRepository,
	soldiers *repository.SoldierRepository, suggestions *repository.SuggestionRepository) *ReportService {
	return &ReportService{db: db, reports: reports, soldiers: soldiers, suggestions: suggestions}
}

// Create stores a new report for the soldier and persists any suggestions the
// trigger rules produce. Report and suggestions commit in one transaction, so
// a visible report always has its suggestions and a failed insert leaves
// neither behind.
func (s *ReportService) Create(soldierID string, input CreateReportInput) (*models.Report, []models.Suggestion, error) {
	if input.ReportType == "" {
		return nil, nil, validationErr("report_type", "is required")
	}
	if !validReportTypes[input.ReportType] {
		return nil, nil, validationErr("report_type", fmt.Sprintf("unknown report type %q", input.ReportType))
	}

	soldier, err := s.soldiers.GetByID(soldierID)
	if err != nil {
		return nil, nil, err
	}

	structured := string(input.StructuredJSON)
	if structured == "" {
		structured = "{}"
	}

	report := &models.Report{
		ReportID:       uuid.New().String(),
		SoldierID:      soldier.SoldierID,
		UnitID:         soldier.UnitID,
		Timestamp:      time.Now(),
		ReportType:     input.ReportType,
		StructuredJSON: structured,
		Confidence:     input.Confidence,
		Status:         "submitted",
	}

	drafts := trigger.Analyze(report, input.TextContent)
	suggestions := make([]models.Suggestion, 0, len(drafts))
	for _, d := range drafts {
		unitID := report.UnitID
		suggestions = append(suggestions, models.Suggestion{
			SuggestionID:   uuid.New().String(),
			SuggestionType: d.SuggestionType,
			Urgency:        d.Urgency,
			Reason:         d.Reason,
			Confidence:     d.Confidence,
			SourceReports:  []string{report.ReportID},
			Status:         models.SuggestionPending,
			UnitID:         &unitID,
			CreatedAt:      report.Timestamp,
		})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.reports.InsertTx(tx, report); err != nil {
		return nil, nil, err
	}
	for i := range suggestions {
		if err := s.suggestions.InsertTx(tx, &suggestions[i]); err != nil {
			return nil, nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit report: %w", err)
	}

	if len(suggestions) > 0 {
		slog.Info("Created suggestions for report",
			"report_id", report.ReportID, "count", len(suggestions))
	}

	return report, suggestions, nil
}

// Get retrieves a report by ID
func (s *ReportService) Get(id string) (*models.Report, error) {
	return s.reports.GetByID(id)
}

// List retrieves reports with the given filters
func (s *ReportService) List(filters repository.ReportFilters) ([]models.Report, error) {
	return s.reports.List(filters)
}
