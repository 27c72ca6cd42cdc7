package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhier/internal/models"
)

func report(reportType, structured string) *models.Report {
	return &models.Report{
		ReportID:       "r-1",
		ReportType:     reportType,
		StructuredJSON: structured,
	}
}

func findDraft(drafts []Draft, suggestionType string) *Draft {
	for i := range drafts {
		if drafts[i].SuggestionType == suggestionType {
			return &drafts[i]
		}
	}
	return nil
}

func TestAnalyzeCasevacFromCasualtyCount(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeCasualty, `{"casualties": 2}`), "")

	d := findDraft(drafts, models.DocTypeCASEVAC)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyHigh, d.Urgency)
	assert.Equal(t, 0.90, d.Confidence)
	assert.Contains(t, d.Reason, "2 casualties")
}

func TestAnalyzeCasevacUrgentKeyword(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeContact, `{}`), "two soldiers KIA at checkpoint")

	d := findDraft(drafts, models.DocTypeCASEVAC)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyUrgent, d.Urgency)
	assert.Equal(t, 0.95, d.Confidence)
}

func TestAnalyzeCasevacUrgentSeverity(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeCasualty,
		`{"casualties": 1, "severity": "critical"}`), "")

	d := findDraft(drafts, models.DocTypeCASEVAC)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyUrgent, d.Urgency)
}

func TestAnalyzeCasevacSeverityWithoutCount(t *testing.T) {
	// Severity alone must fire, even with no casualty count or keywords
	drafts := Analyze(report(models.ReportTypeCasualty, `{"severity": "critical"}`), "")

	require.Len(t, drafts, 1)
	d := findDraft(drafts, models.DocTypeCASEVAC)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyUrgent, d.Urgency)
	assert.Equal(t, 0.95, d.Confidence)
}

func TestAnalyzeCasevacKeywordOnly(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeSITREP,
		`{"description": "one man wounded during patrol"}`), "")

	d := findDraft(drafts, models.DocTypeCASEVAC)
	require.NotNil(t, d)
	// "critical" not present, no count, so medium urgency
	assert.Equal(t, models.UrgencyMedium, d.Urgency)
	assert.Equal(t, 0.75, d.Confidence)
}

func TestAnalyzeCasevacIgnoresOtherReportTypes(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeLogstat, `{"casualties": 5}`), "")
	assert.Nil(t, findDraft(drafts, models.DocTypeCASEVAC))
}

func TestAnalyzeEOIncrepLargeForce(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeContact,
		`{"enemy_count": 15, "vehicle_count": 3}`), "")

	d := findDraft(drafts, models.DocTypeEOINCREP)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyHigh, d.Urgency)
	assert.Equal(t, 0.90, d.Confidence)
	assert.Contains(t, d.Reason, "15 personnel")
}

func TestAnalyzeEOIncrepSmallContact(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeIntelligence, `{"enemy_count": 4}`), "")

	d := findDraft(drafts, models.DocTypeEOINCREP)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyMedium, d.Urgency)
	assert.Equal(t, 0.85, d.Confidence)
}

func TestAnalyzeEOIncrepKeywordOnly(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeSITREP, `{}`), "observed hostile patrol to the north")

	d := findDraft(drafts, models.DocTypeEOINCREP)
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyMedium, d.Urgency)
	assert.Equal(t, 0.80, d.Confidence)
}

func TestAnalyzeEODAnyReportType(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeLogstat,
		`{"description": "possible IED on supply route"}`), "")

	d := findDraft(drafts, "EOINCREP_EOD")
	require.NotNil(t, d)
	assert.Equal(t, models.UrgencyHigh, d.Urgency)
	assert.Equal(t, 0.85, d.Confidence)
}

func TestAnalyzeMultipleTriggers(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeContact,
		`{"casualties": 1, "enemy_count": 3, "description": "contact with mine strike, one wounded"}`), "")

	assert.NotNil(t, findDraft(drafts, models.DocTypeCASEVAC))
	assert.NotNil(t, findDraft(drafts, models.DocTypeEOINCREP))
	assert.NotNil(t, findDraft(drafts, "EOINCREP_EOD"))
}

func TestAnalyzeUndecodablePayload(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeCasualty, `{not valid json`), "")
	assert.Empty(t, drafts)
}

func TestAnalyzeEmptyPayloadNoMatches(t *testing.T) {
	drafts := Analyze(report(models.ReportTypeSITREP, ""), "")
	assert.Empty(t, drafts)
}

func TestIntFieldCoercion(t *testing.T) {
	assert.Equal(t, 3, intField(map[string]any{"n": float64(3)}, "n"))
	assert.Equal(t, 3, intField(map[string]any{"n": "3"}, "n"))
	assert.Equal(t, 0, intField(map[string]any{"n": "many"}, "n"))
	assert.Equal(t, 0, intField(map[string]any{}, "n"))
}
