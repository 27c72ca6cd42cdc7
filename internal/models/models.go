package models

import (
	"time"
)

// Report types submitted by soldiers
const (
	ReportTypeSITREP       = "SITREP"
	ReportTypeContact      = "CONTACT"
	ReportTypeCasualty     = "CASUALTY"
	ReportTypeIntelligence = "INTELLIGENCE"
	ReportTypeLogstat      = "LOGSTAT"
)

// Generated document types
const (
	DocTypeFRAGO    = "FRAGO"
	DocTypeCASEVAC  = "CASEVAC"
	DocTypeEOINCREP = "EOINCREP"
	DocTypeOPORD    = "OPORD"
)

// Suggestion urgency levels
const (
	UrgencyUrgent = "URGENT"
	UrgencyHigh   = "HIGH"
	UrgencyMedium = "MEDIUM"
	UrgencyLow    = "LOW"
)

// Suggestion review states
const (
	SuggestionPending  = "pending"
	SuggestionAccepted = "accepted"
	SuggestionRejected = "rejected"
)

// Document states
const (
	DocumentDraft = "draft"
	DocumentFinal = "final"
)

// Unit represents a node in the military hierarchy
type Unit struct {
	UnitID       string    `json:"unit_id" db:"unit_id"`
	Name         string    `json:"name" db:"name"`
	ParentUnitID *string   `json:"parent_unit_id,omitempty" db:"parent_unit_id"`
	Level        string    `json:"level" db:"level"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Soldier represents an individual personnel record
type Soldier struct {
	SoldierID string     `json:"soldier_id" db:"soldier_id"`
	Name      string     `json:"name" db:"name"`
	Rank      string     `json:"rank" db:"rank"`
	UnitID    string     `json:"unit_id" db:"unit_id"`
	DeviceID  *string    `json:"device_id,omitempty" db:"device_id"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastSeen  *time.Time `json:"last_seen,omitempty" db:"last_seen"`
	// Populated on joined reads
	UnitName string `json:"unit_name,omitempty" db:"unit_name"`
}

// RawInput is an unprocessed voice/text transmission from a soldier device
type RawInput struct {
	InputID     string    `json:"input_id" db:"input_id"`
	SoldierID   string    `json:"soldier_id" db:"soldier_id"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	RawText     string    `json:"raw_text" db:"raw_text"`
	RawAudioRef *string   `json:"raw_audio_ref,omitempty" db:"raw_audio_ref"`
	InputType   string    `json:"input_type" db:"input_type"`
	Confidence  float64   `json:"confidence" db:"confidence"`
	LocationRef *string   `json:"location_ref,omitempty" db:"location_ref"`
}

// Report is a structured report. The StructuredJSON payload holds
// type-specific fields as an opaque JSON-encoded string; reports are
// immutable once created.
type Report struct {
	ReportID       string    `json:"report_id" db:"report_id"`
	SoldierID      string    `json:"soldier_id" db:"soldier_id"`
	UnitID         string    `json:"unit_id" db:"unit_id"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	ReportType     string    `json:"report_type" db:"report_type"`
	StructuredJSON string    `json:"structured_json" db:"structured_json"`
	Confidence     float64   `json:"confidence" db:"confidence"`
	Status         string    `json:"status" db:"status"`
	// Populated on joined reads
	SoldierName string `json:"soldier_name,omitempty" db:"soldier_name"`
	UnitName    string `json:"unit_name,omitempty" db:"unit_name"`
}

// Suggestion is a follow-up action proposed by the trigger engine.
// SourceReports holds the triggering report ids as an ordered list.
type Suggestion struct {
	SuggestionID   string     `json:"suggestion_id" db:"suggestion_id"`
	SuggestionType string     `json:"suggestion_type" db:"suggestion_type"`
	Urgency        string     `json:"urgency" db:"urgency"`
	Reason         string     `json:"reason" db:"reason"`
	Confidence     float64    `json:"confidence" db:"confidence"`
	SourceReports  []string   `json:"source_reports" db:"source_reports"`
	Status         string     `json:"status" db:"status"`
	UnitID         *string    `json:"unit_id,omitempty" db:"unit_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty" db:"reviewed_by"`
}

// GeneratedDocument is a numbered staff document (FRAGO, CASEVAC, EOINCREP,
// OPORD) built from source reports. SuggestedFields holds the proposed
// content prior to edits; FinalFields and FormattedDocument are set by
// finalize and immutable thereafter.
type GeneratedDocument struct {
	DocumentID        string            `json:"document_id" db:"document_id"`
	DocType           string            `json:"doc_type" db:"doc_type"`
	DocNumber         int64             `json:"doc_number" db:"doc_number"`
	UnitID            *string           `json:"unit_id,omitempty" db:"unit_id"`
	SourceReports     []string          `json:"source_reports" db:"source_reports"`
	SuggestedFields   map[string]string `json:"suggested_fields" db:"suggested_fields"`
	FinalFields       map[string]string `json:"final_fields" db:"final_fields"`
	FormattedDocument string            `json:"formatted_document" db:"formatted_document"`
	Status            string            `json:"status" db:"status"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	FinalizedAt       *time.Time        `json:"finalized_at,omitempty" db:"finalized_at"`
}

// UnitNode is a unit with its soldiers and subordinate units attached,
// used by the hierarchy view.
type UnitNode struct {
	Unit
	Soldiers []Soldier   `json:"soldiers"`
	Subunits []*UnitNode `json:"subunits"`
}
