// Package trigger scans newly created reports for situations that warrant a
// follow-up action and proposes suggestions for user review. It never blocks
// or fails report creation; a report whose payload cannot be decoded simply
// produces no matches.
package trigger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"milhier/internal/models"
)

// Draft is a proposed suggestion before it is persisted
type Draft struct {
	SuggestionType string
	Urgency        string
	Reason         string
	Confidence     float64
}

// rule inspects one report and returns a draft suggestion, or nil when the
// report does not match.
type rule struct {
	name        string
	reportTypes []string // empty means all report types
	evaluate    func(fields map[string]any, text string) *Draft
}

var rules = []rule{
	{
		name:        "casevac",
		reportTypes: []string{models.ReportTypeCasualty, models.ReportTypeContact, models.ReportTypeSITREP},
		evaluate:    evaluateCasevac,
	},
	{
		name:        "eoincrep",
		reportTypes: []string{models.ReportTypeContact, models.ReportTypeIntelligence, models.ReportTypeSITREP},
		evaluate:    evaluateEOIncrep,
	},
	{
		name:     "eoincrep_eod",
		evaluate: evaluateEOD,
	},
}

var (
	injuryKeywords = []string{"wounded", "injured", "casualty", "casualties", "medevac",
		"kia", "killed", "wia", "gunshot", "bleeding", "critical"}
	urgentKeywords = []string{"critical", "severe", "life-threatening", "kia", "killed"}
	enemyKeywords  = []string{"enemy", "hostile", "contact", "engagement", "patrol",
		"infantry", "armor", "artillery"}
	eodKeywords = []string{"ied", "mine", "unexploded", "booby trap", "explosive",
		"ordnance", "bomb"}
)

// Analyze evaluates every rule against the report and returns the matching
// drafts. The optional text is free-form transcript content accompanying the
// structured payload.
func Analyze(report *models.Report, text string) []Draft {
	fields := decodeFields(report)
	textLower := strings.ToLower(text)

	var drafts []Draft
	for _, r := range rules {
		if !r.applies(report.ReportType) {
			continue
		}
		if d := r.evaluate(fields, textLower); d != nil {
			drafts = append(drafts, *d)
		}
	}
	return drafts
}

func (r rule) applies(reportType string) bool {
	if len(r.reportTypes) == 0 {
		return true
	}
	for _, t := range r.reportTypes {
		if t == reportType {
			return true
		}
	}
	return false
}

func decodeFields(report *models.Report) map[string]any {
	if report.StructuredJSON == "" {
		return map[string]any{}
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(report.StructuredJSON), &fields); err != nil {
		slog.Warn("Undecodable report payload, skipping trigger analysis",
			"report_id", report.ReportID, "error", err)
		return map[string]any{}
	}
	return fields
}

func evaluateCasevac(fields map[string]any, text string) *Draft {
	casualties := intField(fields, "casualties")
	severity := strings.ToLower(stringField(fields, "severity"))
	description := strings.ToLower(stringField(fields, "description"))
	severityCritical := severity == "critical" || severity == "severe"

	if casualties <= 0 && !severityCritical && !containsAny(text, description, injuryKeywords) {
		return nil
	}

	d := &Draft{
		SuggestionType: models.DocTypeCASEVAC,
		Urgency:        models.UrgencyMedium,
		Confidence:     0.75,
		Reason:         "Potential casualties detected",
	}
	switch {
	case containsAny(text, description, urgentKeywords):
		d.Urgency = models.UrgencyUrgent
		d.Confidence = 0.95
		d.Reason = "URGENT: Critical casualties detected"
	case severityCritical:
		d.Urgency = models.UrgencyUrgent
		d.Confidence = 0.95
		if casualties > 0 {
			d.Reason = fmt.Sprintf("URGENT: %d critical casualties", casualties)
		} else {
			d.Reason = "URGENT: Critical casualties detected"
		}
	case casualties >= 1:
		d.Urgency = models.UrgencyHigh
		d.Confidence = 0.90
		d.Reason = fmt.Sprintf("%d casualties reported", casualties)
	}
	return d
}

func evaluateEOIncrep(fields map[string]any, text string) *Draft {
	enemyCount := intField(fields, "enemy_count")
	vehicleCount := intField(fields, "vehicle_count")
	description := strings.ToLower(stringField(fields, "description"))

	if enemyCount <= 0 && !containsAny(text, description, enemyKeywords) {
		return nil
	}

	d := &Draft{
		SuggestionType: models.DocTypeEOINCREP,
		Urgency:        models.UrgencyMedium,
		Confidence:     0.80,
		Reason:         "Enemy activity detected",
	}
	switch {
	case enemyCount > 10 || vehicleCount > 2:
		d.Urgency = models.UrgencyHigh
		d.Confidence = 0.90
		d.Reason = fmt.Sprintf("Significant enemy force: %d personnel, %d vehicles", enemyCount, vehicleCount)
	case enemyCount > 0:
		d.Confidence = 0.85
		d.Reason = fmt.Sprintf("Enemy contact: %d hostiles", enemyCount)
	}
	return d
}

func evaluateEOD(fields map[string]any, text string) *Draft {
	description := strings.ToLower(stringField(fields, "description"))
	if !containsAny(text, description, eodKeywords) {
		return nil
	}
	return &Draft{
		SuggestionType: "EOINCREP_EOD",
		Urgency:        models.UrgencyHigh,
		Confidence:     0.85,
		Reason:         "Explosive ordnance/device detected",
	}
}

func containsAny(text, description string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) || strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
