package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnitNotFound       = "Unit not found"
	ErrMsgSoldierNotFound    = "Soldier not found"
	ErrMsgReportNotFound     = "Report not found"
	ErrMsgSuggestionNotFound = "Suggestion not found"
	ErrMsgDocumentNotFound   = "Document not found"
)

// API path constants
const (
	APIBasePath = "/api/v1"
)
