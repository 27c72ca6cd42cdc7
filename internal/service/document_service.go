package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"milhier/internal/database"
	"milhier/internal/models"
	"milhier/internal/repository"
)

var validDocTypes = map[string]bool{
	models.DocTypeFRAGO:    true,
	models.DocTypeCASEVAC:  true,
	models.DocTypeEOINCREP: true,
	models.DocTypeOPORD:    true,
}

// GenerateDocumentInput is the payload for generating a staff document
type GenerateDocumentInput struct {
	DocType         string            `json:"doc_type"`
	UnitID          string            `json:"unit_id"`
	Fields          map[string]string `json:"fields"`
	SourceReportIDs []string          `json:"source_report_ids"`
}

// DocumentService generates and finalizes numbered staff documents
type DocumentService struct {
	db        *database.Database
	documents *repository.DocumentRepository
	sequences *repository.SequenceRepository
	reports   *repository.ReportRepository
	units     *repository.UnitRepository
}

// NewDocumentService creates a new document service
func NewDocumentService(db *database.Database, documents *repository.DocumentRepository,
	sequences *repository.SequenceRepository, reports *repository.ReportRepository,
	units *repository.UnitRepository) *DocumentService {
	return &DocumentService{db: db, documents: documents, sequences: sequences,
		reports: reports, units: units}
}

// Generate creates a draft document from the given fields, allocating its
// document number and inserting the row in one transaction. FRAGO numbers
// come from the legacy single-row counter; all other types use per-type
// sequences. The two counters are independent.
func (s *DocumentService) Generate(input GenerateDocumentInput) (*models.GeneratedDocument, error) {
	if input.DocType == "" {
		return nil, validationErr("doc_type", "is required")
	}
	if !validDocTypes[input.DocType] {
		return nil, validationErr("doc_type", fmt.Sprintf("unknown document type %q", input.DocType))
	}

	unitName := ""
	var unitID *string
	if input.UnitID != "" {
		unit, err := s.units.GetByID(input.UnitID)
		if err != nil {
			return nil, err
		}
		unitID = &unit.UnitID
		unitName = unit.Name
	}

	if len(input.SourceReportIDs) > 0 {
		missing, err := s.reports.MissingIDs(input.SourceReportIDs)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, validationErr("source_report_ids",
				fmt.Sprintf("unknown reports: %s", strings.Join(missing, ", ")))
		}
	}

	fields := input.Fields
	if fields == nil {
		fields = map[string]string{}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var number int64
	if input.DocType == models.DocTypeFRAGO {
		number, err = s.sequences.AllocateNextFrago(tx)
	} else {
		number, err = s.sequences.AllocateNext(tx, input.DocType)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &models.GeneratedDocument{
		DocumentID:        uuid.New().String(),
		DocType:           input.DocType,
		DocNumber:         number,
		UnitID:            unitID,
		SourceReports:     input.SourceReportIDs,
		SuggestedFields:   fields,
		FinalFields:       map[string]string{},
		FormattedDocument: renderDocument(input.DocType, number, unitName, fields, input.SourceReportIDs, now),
		Status:            models.DocumentDraft,
		CreatedAt:         now,
	}

	if err := s.documents.InsertTx(tx, doc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit document: %w", err)
	}

	return doc, nil
}

// Finalize applies edited fields to a draft and marks it final, re-rendering
// the formatted text. A document that is already final is returned unchanged,
// so repeated finalize calls are safe and never allocate a new number.
func (s *DocumentService) Finalize(id string, finalFields map[string]string) (*models.GeneratedDocument, error) {
	doc, err := s.documents.GetByID(id)
	if err != nil {
		return nil, err
	}

	if finalFields == nil {
		finalFields = doc.SuggestedFields
	}

	unitName := ""
	if doc.UnitID != nil {
		if unit, err := s.units.GetByID(*doc.UnitID); err == nil {
			unitName = unit.Name
		}
	}

	formatted := renderDocument(doc.DocType, doc.DocNumber, unitName, finalFields, doc.SourceReports, doc.CreatedAt)

	finalized, err := s.documents.Finalize(id, finalFields, formatted)
	if errors.Is(err, repository.ErrDocumentFinalized) {
		return s.documents.GetByID(id)
	}
	if err != nil {
		return nil, err
	}
	return finalized, nil
}

// Get retrieves a document by ID
func (s *DocumentService) Get(id string) (*models.GeneratedDocument, error) {
	return s.documents.GetByID(id)
}

// List retrieves documents with the given filters
func (s *DocumentService) List(filters repository.DocumentFilters) ([]models.GeneratedDocument, error) {
	return s.documents.List(filters)
}
