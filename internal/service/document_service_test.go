package service_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhier/internal/models"
	"milhier/internal/service"
)

func TestDocumentGenerateFRAGO(t *testing.T) {
	e := newEnv(t)

	doc, err := e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType: models.DocTypeFRAGO,
		UnitID:  e.unit.UnitID,
		Fields:  map[string]string{"mission": "Seize objective BRAVO by 0600."},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.DocNumber)
	assert.Equal(t, models.DocumentDraft, doc.Status)
	assert.Contains(t, doc.FormattedDocument, "FRAGMENTARY ORDER 0001")
	assert.Contains(t, doc.FormattedDocument, "1st Platoon")
	assert.Contains(t, doc.FormattedDocument, "Seize objective BRAVO by 0600.")
	assert.Contains(t, doc.FormattedDocument, "No change to current situation.")
	assert.Contains(t, doc.FormattedDocument, "//END OF FRAGO//")

	second, err := e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType: models.DocTypeFRAGO,
		UnitID:  e.unit.UnitID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.DocNumber)
}

func TestDocumentNumberingPerTypeIndependent(t *testing.T) {
	e := newEnv(t)

	frago, err := e.documentSvc.Generate(service.GenerateDocumentInput{DocType: models.DocTypeFRAGO})
	require.NoError(t, err)
	casevac, err := e.documentSvc.Generate(service.GenerateDocumentInput{DocType: models.DocTypeCASEVAC})
	require.NoError(t, err)
	eoincrep, err := e.documentSvc.Generate(service.GenerateDocumentInput{DocType: models.DocTypeEOINCREP})
	require.NoError(t, err)

	assert.Equal(t, int64(1), frago.DocNumber)
	assert.Equal(t, int64(1), casevac.DocNumber)
	assert.Equal(t, int64(1), eoincrep.DocNumber)
}

func TestDocumentGenerateCASEVACFormat(t *testing.T) {
	e := newEnv(t)

	report, _, err := e.reportSvc.Create(e.soldier.SoldierID, service.CreateReportInput{
		ReportType:     models.ReportTypeCasualty,
		StructuredJSON: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	doc, err := e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType: models.DocTypeCASEVAC,
		UnitID:  e.unit.UnitID,
		Fields: map[string]string{
			"location":   "grid 18S UJ 228 306",
			"precedence": "A",
			"patients":   "1L 1A",
		},
		SourceReportIDs: []string{report.ReportID},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.FormattedDocument, "CASEVAC REQUEST 0001")
	assert.Contains(t, doc.FormattedDocument, "LINE 1 - LOCATION OF PICKUP SITE:\ngrid 18S UJ 228 306")
	assert.Contains(t, doc.FormattedDocument, "A - URGENT (Life, limb, or eyesight threatening)")
	assert.Contains(t, doc.FormattedDocument, report.ReportID)
}

func TestDocumentGenerateEOINCREPFormat(t *testing.T) {
	e := newEnv(t)

	doc, err := e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType: models.DocTypeEOINCREP,
		UnitID:  e.unit.UnitID,
		Fields: map[string]string{
			"enemy_count": "25",
			"activity":    "Moving south along MSR",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.FormattedDocument, "ENEMY OBSERVATION/INCIDENT REPORT 0001")
	assert.Contains(t, doc.FormattedDocument, "=== SALUTE REPORT ===")
	assert.Contains(t, doc.FormattedDocument, "Platoon (20-40)")
	assert.Contains(t, doc.FormattedDocument, "Moving south along MSR")
}

func TestDocumentGenerateValidation(t *testing.T) {
	e := newEnv(t)

	var validationErr *service.ValidationError

	_, err := e.documentSvc.Generate(service.GenerateDocumentInput{})
	require.ErrorAs(t, err, &validationErr)

	_, err = e.documentSvc.Generate(service.GenerateDocumentInput{DocType: "MEMO"})
	require.ErrorAs(t, err, &validationErr)

	_, err = e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType:         models.DocTypeFRAGO,
		SourceReportIDs: []string{uuid.New().String()},
	})
	require.ErrorAs(t, err, &validationErr, "unknown source reports rejected")
}

func TestDocumentFinalizeIdempotent(t *testing.T) {
	e := newEnv(t)

	doc, err := e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType: models.DocTypeFRAGO,
		UnitID:  e.unit.UnitID,
		Fields:  map[string]string{"mission": "draft mission"},
	})
	require.NoError(t, err)

	final, err := e.documentSvc.Finalize(doc.DocumentID, map[string]string{"mission": "final mission"})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentFinal, final.Status)
	assert.Equal(t, doc.DocNumber, final.DocNumber, "no new number on finalize")
	assert.Contains(t, final.FormattedDocument, "final mission")
	require.NotNil(t, final.FinalizedAt)

	// Repeated finalize returns the stored document unchanged
	again, err := e.documentSvc.Finalize(doc.DocumentID, map[string]string{"mission": "ignored edit"})
	require.NoError(t, err)
	assert.Equal(t, final.FormattedDocument, again.FormattedDocument)
	assert.Equal(t, "final mission", again.FinalFields["mission"])
}

func TestDocumentFinalizeDefaultsToSuggestedFields(t *testing.T) {
	e := newEnv(t)

	doc, err := e.documentSvc.Generate(service.GenerateDocumentInput{
		DocType: models.DocTypeOPORD,
		Fields:  map[string]string{"mission": "Defend phase line GOLD."},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.FormattedDocument, "OPERATION ORDER 0001")

	final, err := e.documentSvc.Finalize(doc.DocumentID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Defend phase line GOLD.", final.FinalFields["mission"])
}
