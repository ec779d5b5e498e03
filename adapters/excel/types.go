package excel

// Sheet names the reader looks for in a study workbook. Missing sheets are
// treated as empty collections, not errors; the analytics degrade gracefully.
const (
	SheetCardSorts     = "CardSorts"
	SheetSurveys       = "Surveys"
	SheetAccessibility = "Accessibility"
	SheetDesignSystem  = "DesignSystem"
)

// RawRowData maps column headers to trimmed cell values for one row
type RawRowData map[string]string

// SheetData holds one parsed sheet: headers plus header-keyed rows
type SheetData struct {
	Headers []string
	Rows    []RawRowData
}

// Column names shared across sheets
const (
	colParticipant = "participant_id"
	colStudy       = "study_id"
	colCategory    = "category"
	colCard        = "card"
	colQuestion    = "question_id"
	colValue       = "value"
	colScaleMin    = "scale_min"
	colScaleMax    = "scale_max"
	colMethod      = "method"
	colGuideline   = "guideline_id"
	colPassed      = "passed"
	colSeverity    = "severity"
	colCompliance  = "compliance"
	colComponents  = "components_hit"
)
