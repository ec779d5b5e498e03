package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"uxstat/domain/core"
	"uxstat/domain/research"
	"uxstat/internal"
	"uxstat/internal/errors"
	"uxstat/ports"
)

var _ ports.ResultReaderPort = (*StudyReader)(nil)

// StudyReader loads raw study results from an xlsx workbook or a CSV export
// into domain collections. It implements ports.ResultReaderPort; the
// analytics core never touches the file itself.
type StudyReader struct {
	config StudyFileConfig
	logger *internal.Logger
}

// NewStudyReader creates a reader for the configured study file
func NewStudyReader(config StudyFileConfig, logger *internal.Logger) *StudyReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StudyReader{config: config, logger: logger}
}

// ReadResultSet loads every supported method collection the file holds.
// Missing sheets yield empty collections.
func (r *StudyReader) ReadResultSet(ctx context.Context) (research.ResultSet, error) {
	var set research.ResultSet

	if r.config.IsCSV() {
		sorts, err := r.ReadCardSorts(ctx)
		if err != nil {
			return set, err
		}
		set.CardSorts = sorts
		return set, nil
	}

	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return set, errors.IngestError(r.config.FilePath, err)
	}
	defer f.Close()

	if sheet, ok := r.readSheet(f, SheetCardSorts); ok {
		set.CardSorts = parseCardSorts(sheet)
	}
	if sheet, ok := r.readSheet(f, SheetSurveys); ok {
		set.Surveys = parseSurveys(sheet)
	}
	if sheet, ok := r.readSheet(f, SheetAccessibility); ok {
		set.Accessibility = parseAccessibility(sheet)
	}
	if sheet, ok := r.readSheet(f, SheetDesignSystem); ok {
		set.DesignSystem = parseDesignSystem(sheet)
	}

	r.logger.Info("study file loaded: %d card sorts, %d surveys, %d accessibility, %d design-system",
		len(set.CardSorts), len(set.Surveys), len(set.Accessibility), len(set.DesignSystem))
	return set, nil
}

// ReadCardSorts loads only the card-sort results
func (r *StudyReader) ReadCardSorts(_ context.Context) ([]research.CardSortResult, error) {
	if r.config.IsCSV() {
		sheet, err := r.readCSV()
		if err != nil {
			return nil, err
		}
		return parseCardSorts(sheet), nil
	}

	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, errors.IngestError(r.config.FilePath, err)
	}
	defer f.Close()

	sheet, ok := r.readSheet(f, SheetCardSorts)
	if !ok {
		return nil, nil
	}
	return parseCardSorts(sheet), nil
}

// readSheet reads one worksheet into header-keyed rows; absent or empty
// sheets report ok=false.
func (r *StudyReader) readSheet(f *excelize.File, name string) (SheetData, bool) {
	rows, err := f.GetRows(name)
	if err != nil || len(rows) < 2 {
		r.logger.Debug("sheet %q absent or empty, skipping", name)
		return SheetData{}, false
	}
	return processRows(rows), true
}

// readCSV reads the whole CSV file as a card-sort table
func (r *StudyReader) readCSV() (SheetData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return SheetData{}, errors.IngestError(r.config.FilePath, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return SheetData{}, errors.IngestError(r.config.FilePath, err)
	}
	if len(rows) < 2 {
		return SheetData{}, errors.IngestError(r.config.FilePath,
			fmt.Errorf("need a header row and at least one data row"))
	}
	return processRows(rows), nil
}

// processRows converts raw string rows into header-keyed row maps
func processRows(rows [][]string) SheetData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	data := SheetData{Headers: headers}
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		data.Rows = append(data.Rows, rowData)
	}
	return data
}

// parseCardSorts groups assignment rows (one card placement per row) into
// per-participant results. Rows missing a participant or card are dropped;
// ingestion degrades instead of halting.
func parseCardSorts(sheet SheetData) []research.CardSortResult {
	type sortKey struct {
		participant core.ParticipantID
		study       core.StudyID
	}
	order := []sortKey{}
	byKey := make(map[sortKey]*research.CardSortResult)
	catIndex := make(map[sortKey]map[string]int)

	for _, row := range sheet.Rows {
		participant, err := core.ParseParticipantID(row[colParticipant])
		if err != nil {
			continue
		}
		card, err := core.ParseCardKey(row[colCard])
		if err != nil {
			continue
		}
		category := strings.TrimSpace(row[colCategory])
		if category == "" {
			category = "Uncategorized"
		}

		key := sortKey{participant: participant, study: core.StudyID(row[colStudy])}
		result := byKey[key]
		if result == nil {
			result = &research.CardSortResult{
				ParticipantID: participant,
				StudyID:       key.study,
			}
			byKey[key] = result
			catIndex[key] = make(map[string]int)
			order = append(order, key)
		}

		idx, ok := catIndex[key][category]
		if !ok {
			idx = len(result.Categories)
			result.Categories = append(result.Categories, research.CategoryAssignment{
				CategoryID:   core.NewID(),
				CategoryName: category,
			})
			catIndex[key][category] = idx
		}
		result.Categories[idx].Cards = append(result.Categories[idx].Cards, research.CardRef{
			ID:   core.NewID(),
			Text: string(card),
		})
	}

	results := make([]research.CardSortResult, 0, len(order))
	for _, key := range order {
		results = append(results, *byKey[key])
	}
	return results
}

// parseSurveys groups answer rows into per-participant responses
func parseSurveys(sheet SheetData) []research.SurveyResponse {
	type responseKey struct {
		participant core.ParticipantID
		study       core.StudyID
	}
	order := []responseKey{}
	byKey := make(map[responseKey]*research.SurveyResponse)

	for _, row := range sheet.Rows {
		participant, err := core.ParseParticipantID(row[colParticipant])
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(row[colValue], 64)
		if err != nil {
			continue
		}

		key := responseKey{participant: participant, study: core.StudyID(row[colStudy])}
		response := byKey[key]
		if response == nil {
			response = &research.SurveyResponse{ParticipantID: participant, StudyID: key.study}
			byKey[key] = response
			order = append(order, key)
		}
		response.Answers = append(response.Answers, research.ScaleAnswer{
			QuestionID: core.ID(row[colQuestion]),
			Value:      value,
			ScaleMin:   parseFloatOrDefault(row[colScaleMin], 1),
			ScaleMax:   parseFloatOrDefault(row[colScaleMax], 5),
		})
	}

	responses := make([]research.SurveyResponse, 0, len(order))
	for _, key := range order {
		responses = append(responses, *byKey[key])
	}
	return responses
}

// parseAccessibility groups guideline-check rows into per-participant
// evaluations.
func parseAccessibility(sheet SheetData) []research.AccessibilityEvaluation {
	type evalKey struct {
		participant core.ParticipantID
		study       core.StudyID
		method      research.MethodType
	}
	order := []evalKey{}
	byKey := make(map[evalKey]*research.AccessibilityEvaluation)

	for _, row := range sheet.Rows {
		participant, err := core.ParseParticipantID(row[colParticipant])
		if err != nil {
			continue
		}
		guideline := strings.TrimSpace(row[colGuideline])
		if guideline == "" {
			continue
		}
		method, err := research.ParseMethodType(row[colMethod])
		if err != nil {
			method = research.MethodAccessibility
		}

		key := evalKey{participant: participant, study: core.StudyID(row[colStudy]), method: method}
		eval := byKey[key]
		if eval == nil {
			eval = &research.AccessibilityEvaluation{
				ParticipantID: participant,
				StudyID:       key.study,
				Method:        method,
			}
			byKey[key] = eval
			order = append(order, key)
		}
		passed, _ := strconv.ParseBool(row[colPassed])
		eval.Checks = append(eval.Checks, research.GuidelineCheck{
			GuidelineID: core.GuidelineID(guideline),
			Passed:      passed,
			Severity:    research.Severity(strings.ToLower(row[colSeverity])),
		})
	}

	evals := make([]research.AccessibilityEvaluation, 0, len(order))
	for _, key := range order {
		evals = append(evals, *byKey[key])
	}
	return evals
}

// parseDesignSystem reads one evaluation per row
func parseDesignSystem(sheet SheetData) []research.DesignSystemEvaluation {
	var evals []research.DesignSystemEvaluation
	for _, row := range sheet.Rows {
		participant, err := core.ParseParticipantID(row[colParticipant])
		if err != nil {
			continue
		}
		compliance, err := strconv.ParseFloat(row[colCompliance], 64)
		if err != nil {
			continue
		}
		components, _ := strconv.Atoi(row[colComponents])
		evals = append(evals, research.DesignSystemEvaluation{
			ParticipantID: participant,
			StudyID:       core.StudyID(row[colStudy]),
			Compliance:    compliance,
			ComponentsHit: components,
		})
	}
	return evals
}

func parseFloatOrDefault(s string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return defaultValue
}
