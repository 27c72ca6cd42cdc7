package service

import (
	"fmt"
	"strings"
	"time"

	"milhier/internal/models"
)

// Date-time group as it appears on formatted documents, e.g. "14093045Z AUG 2026".
func dtg(t time.Time) string {
	return strings.ToUpper(t.Format("02150405Z Jan 2006"))
}

func field(fields map[string]string, key, fallback string) string {
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	return fallback
}

var (
	precedenceCodes = map[string]string{
		"A": "URGENT (Life, limb, or eyesight threatening)",
		"B": "URGENT-SURGICAL (Surgical intervention required within 2 hours)",
		"C": "PRIORITY (Stable but requires medical attention)",
		"D": "ROUTINE (Minor injuries, stable)",
		"E": "CONVENIENCE (No medical condition)",
	}
	equipmentCodes = map[string]string{
		"A": "None",
		"B": "Hoist",
		"C": "Extraction Equipment",
		"D": "Ventilator",
	}
	securityCodes = map[string]string{
		"N": "No enemy troops in area",
		"P": "Possible enemy troops in area (approach with caution)",
		"E": "Enemy troops in area (armed escort required)",
		"X": "Enemy troops in area (armed escort required)",
	}
	markingCodes = map[string]string{
		"A": "Panels",
		"B": "Pyrotechnic signal",
		"C": "Smoke signal",
		"D": "None",
		"E": "Other (specify in remarks)",
	}
	nationalityCodes = map[string]string{
		"A": "US Military",
		"B": "US Civilian",
		"C": "Non-US Military",
		"D": "Non-US Civilian",
		"E": "Enemy Prisoner of War (EPW)",
	}
)

func codeMeaning(codes map[string]string, code string) string {
	if meaning, ok := codes[code]; ok {
		return meaning
	}
	return "NOT SPECIFIED"
}

// renderDocument produces the formatted text for the given document type
func renderDocument(docType string, docNumber int64, unitName string, fields map[string]string, sourceReports []string, at time.Time) string {
	switch docType {
	case models.DocTypeFRAGO:
		return renderFRAGO(docNumber, unitName, fields, at)
	case models.DocTypeCASEVAC:
		return renderCASEVAC(docNumber, unitName, fields, sourceReports, at)
	case models.DocTypeEOINCREP:
		return renderEOINCREP(docNumber, unitName, fields, sourceReports, at)
	case models.DocTypeOPORD:
		return renderOPORD(docNumber, unitName, fields, at)
	}
	return ""
}

// Fragmentary order in the standard 5-paragraph format. Missing fields fall
// back to "no change" boilerplate so a partial order is still well formed.
func renderFRAGO(number int64, unitName string, fields map[string]string, at time.Time) string {
	return fmt.Sprintf(`FRAGMENTARY ORDER %04d
%s
%s

1. SITUATION
%s

2. MISSION
%s

3. EXECUTION
%s

4. SERVICE SUPPORT
%s

5. COMMAND AND SIGNAL
%s

ACKNOWLEDGE.
//END OF FRAGO//
`,
		number,
		unitName,
		strings.ToUpper(at.Format("02150405 Jan 2006")),
		field(fields, "situation", "No change to current situation."),
		field(fields, "mission", "Continue current mission."),
		field(fields, "execution", "No change to current execution."),
		field(fields, "service_support", "Continue current support operations."),
		field(fields, "command_signal", "No change to command and signal."),
	)
}

// 9-line MEDEVAC request. Single-letter line codes are expanded to their
// standard meanings alongside the code.
func renderCASEVAC(number int64, unitName string, fields map[string]string, sourceReports []string, at time.Time) string {
	precedence := field(fields, "precedence", "C")
	equipment := field(fields, "special_equipment", "A")
	security := field(fields, "security", "N")
	marking := field(fields, "marking_method", "D")
	nationality := field(fields, "nationality", "A")

	return fmt.Sprintf(`CASEVAC REQUEST %04d
DTG: %s
FROM: %s

9-LINE MEDEVAC REQUEST:

LINE 1 - LOCATION OF PICKUP SITE:
%s

LINE 2 - RADIO FREQUENCY, CALL SIGN, AND SUFFIX:
%s

LINE 3 - NUMBER OF PATIENTS BY PRECEDENCE:
%s - %s

LINE 4 - SPECIAL EQUIPMENT REQUIRED:
%s - %s

LINE 5 - NUMBER OF PATIENTS BY TYPE:
%s
(L = Litter/Stretcher, A = Ambulatory/Walking Wounded)

LINE 6 - SECURITY AT PICKUP SITE:
%s - %s

LINE 7 - METHOD OF MARKING PICKUP SITE:
%s - %s

LINE 8 - PATIENT NATIONALITY AND STATUS:
%s - %s

LINE 9 - NBC CONTAMINATION:
%s
(N=None, C=Chemical, B=Biological, R=Radiological)

---
SOURCE REPORTS: %s
---
`,
		number,
		dtg(at),
		unitName,
		field(fields, "location", "NOT SPECIFIED"),
		field(fields, "callsign_frequency", "NOT SPECIFIED"),
		precedence, codeMeaning(precedenceCodes, precedence),
		equipment, codeMeaning(equipmentCodes, equipment),
		field(fields, "patients", "NOT SPECIFIED"),
		security, codeMeaning(securityCodes, security),
		marking, codeMeaning(markingCodes, marking),
		nationality, codeMeaning(nationalityCodes, nationality),
		field(fields, "nbc_contamination", "N"),
		strings.Join(sourceReports, ", "),
	)
}

func estimatedUnitSize(enemyCount string) string {
	var n int
	fmt.Sscanf(enemyCount, "%d", &n)
	switch {
	case n <= 6:
		return "Fire Team (4-6)"
	case n <= 12:
		return "Squad (8-12)"
	case n <= 40:
		return "Platoon (20-40)"
	case n <= 150:
		return "Company (80-150)"
	}
	return "Battalion (300+)"
}

// Enemy observation/incident report in SALUTE format
func renderEOINCREP(number int64, unitName string, fields map[string]string, sourceReports []string, at time.Time) string {
	timeGroup := dtg(at)
	enemyCount := field(fields, "enemy_count", "0")
	enemyType := field(fields, "enemy_type", "UNKNOWN")
	location := field(fields, "location", "NOT SPECIFIED")

	return fmt.Sprintf(`ENEMY OBSERVATION/INCIDENT REPORT %04d
DTG: %s
FROM: %s
OBSERVER: %s

LOCATION: %s

=== SALUTE REPORT ===

S - SIZE:
Enemy Personnel: %s
Enemy Vehicles: %s
Unit Type: %s

A - ACTIVITY:
%s

L - LOCATION:
%s

U - UNIT:
Type: %s
Estimated Size: %s

T - TIME:
%s

E - EQUIPMENT:
%s

=== ADDITIONAL INFORMATION ===

DIRECTION OF MOVEMENT: %s

THREAT ASSESSMENT: %s

RECOMMENDED ACTION:
%s

---
SOURCE REPORTS: %s
---
`,
		number,
		timeGroup,
		unitName,
		field(fields, "observer_id", "NOT SPECIFIED"),
		location,
		field(fields, "enemy_count", "Unknown"),
		field(fields, "vehicle_count", "0"),
		enemyType,
		field(fields, "activity", "NOT SPECIFIED"),
		location,
		enemyType,
		estimatedUnitSize(enemyCount),
		timeGroup,
		field(fields, "equipment", "NOT SPECIFIED"),
		field(fields, "direction", "NOT SPECIFIED"),
		field(fields, "threat_level", "MEDIUM"),
		field(fields, "recommended_action", "Monitor and report any changes"),
		strings.Join(sourceReports, ", "),
	)
}

// Operation order, same 5-paragraph skeleton as the FRAGO but issued as a
// standing order rather than a modification.
func renderOPORD(number int64, unitName string, fields map[string]string, at time.Time) string {
	return fmt.Sprintf(`OPERATION ORDER %04d
%s
%s

1. SITUATION
%s

2. MISSION
%s

3. EXECUTION
%s

4. SERVICE SUPPORT
%s

5. COMMAND AND SIGNAL
%s

ACKNOWLEDGE.
//END OF OPORD//
`,
		number,
		unitName,
		dtg(at),
		field(fields, "situation", "NOT SPECIFIED"),
		field(fields, "mission", "NOT SPECIFIED"),
		field(fields, "execution", "NOT SPECIFIED"),
		field(fields, "service_support", "NOT SPECIFIED"),
		field(fields, "command_signal", "NOT SPECIFIED"),
	)
}
