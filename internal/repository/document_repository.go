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
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDocumentFinalized = errors.New("document already finalized")
)

// DocumentFilters holds filter parameters for document queries
type DocumentFilters struct {
	UnitID  string
	DocType string
	Limit   int
}

// DocumentRepository handles generated document database operations
type DocumentRepository struct {
	db *database.Database
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.Database) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// InsertTx inserts a draft document inside the caller's transaction so that
// the document and its allocated number commit together.
func (r *DocumentRepository) InsertTx(tx *database.Tx, doc *models.GeneratedDocument) error {
	_, err := tx.Exec(`
		INSERT INTO generated_documents (document_id, doc_type, doc_number, unit_id,
		    source_reports, suggested_fields, final_fields, formatted_document, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.DocumentID, doc.DocType, doc.DocNumber, doc.UnitID,
		marshalStrings(doc.SourceReports), marshalFields(doc.SuggestedFields),
		marshalFields(doc.FinalFields), doc.FormattedDocument, doc.Status,
		formatTime(doc.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(id string) (*models.GeneratedDocument, error) {
	row := r.db.QueryRow(`
		SELECT document_id, doc_type, doc_number, unit_id, source_reports,
		       suggested_fields, final_fields, formatted_document, status,
		       created_at, finalized_at
		FROM generated_documents
		WHERE document_id = ?
	`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// List retrieves documents newest first with optional filters
func (r *DocumentRepository) List(filters DocumentFilters) ([]models.GeneratedDocument, error) {
	query := `
		SELECT document_id, doc_type, doc_number, unit_id, source_reports,
		       suggested_fields, final_fields, formatted_document, status,
		       created_at, finalized_at
		FROM generated_documents
	`

	var conditions []string
	var args []any
	if filters.UnitID != "" {
		conditions = append(conditions, "unit_id = ?")
		args = append(args, filters.UnitID)
	}
	if filters.DocType != "" {
		conditions = append(conditions, "doc_type = ?")
		args = append(args, filters.DocType)
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
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []models.GeneratedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, *doc)
	}

	return documents, rows.Err()
}

// Finalize writes the final fields and formatted text of a draft document and
// marks it final. Finalized documents stay immutable; repeated calls report
// ErrDocumentFinalized so the caller can treat them as idempotent.
func (r *DocumentRepository) Finalize(id string, finalFields map[string]string, formatted string) (*models.GeneratedDocument, error) {
	result, err := r.db.Exec(`
		UPDATE generated_documents
		SET final_fields = ?, formatted_document = ?, status = ?, finalized_at = ?
		WHERE document_id = ? AND status = ?
	`, marshalFields(finalFields), formatted, models.DocumentFinal,
		formatTime(time.Now()), id, models.DocumentDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, ErrDocumentFinalized
	}

	return r.GetByID(id)
}

func scanDocument(row rowScanner) (*models.GeneratedDocument, error) {
	var (
		doc             models.GeneratedDocument
		unitID          sql.NullString
		sourceReports   string
		suggestedFields string
		finalFields     string
		createdAt       string
		finalizedAt     sql.NullString
	)
	if err := row.Scan(&doc.DocumentID, &doc.DocType, &doc.DocNumber, &unitID,
		&sourceReports, &suggestedFields, &finalFields, &doc.FormattedDocument,
		&doc.Status, &createdAt, &finalizedAt); err != nil {
		return nil, err
	}
	doc.UnitID = stringPtr(unitID)
	doc.SourceReports = unmarshalStrings(sourceReports)
	doc.SuggestedFields = unmarshalFields(suggestedFields)
	doc.FinalFields = unmarshalFields(finalFields)
	doc.CreatedAt = parseTime(createdAt)
	doc.FinalizedAt = parseTimePtr(finalizedAt)
	return &doc, nil
}
