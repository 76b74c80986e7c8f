package parser

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// WorkbookResult is the outcome of parsing every sheet of one workbook.
// Engineers whose sheets produced no case rows are already excluded.
type WorkbookResult struct {
	Engineers     []model.ParsedEngineer
	DetectedCoach string
	TotalCases    int
	Quarters      []string
	Errors        []string
	Warnings      []string
}

// WorkbookParser parses workbooks sheet by sheet, collecting per-sheet
// failures instead of aborting the run.
type WorkbookParser struct {
	sheets *SheetParser
	log    zerolog.Logger
}

// NewWorkbookParser creates a workbook parser using the fixed template layout.
func NewWorkbookParser(logger zerolog.Logger) *WorkbookParser {
	return &WorkbookParser{
		sheets: NewSheetParser(TemplateLayout()),
		log:    logger,
	}
}

// Parse walks the workbook's sheets in physical order. A sheet that fails
// to parse is recorded in Errors and skipped; the rest still parse. The
// workbook-wide coach is the first sheet's detected coach; later sheets
// naming a different coach are logged and recorded as warnings rather than
// silently losing to the first.
func (p *WorkbookParser) Parse(f *excelize.File) *WorkbookResult {
	result := &WorkbookResult{}
	quarterSeen := make(map[string]bool)

	for _, sheetName := range f.GetSheetList() {
		grid, err := NormalizeSheet(f, sheetName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sheet %q: %v", sheetName, err))
			continue
		}

		engineer, err := p.sheets.Parse(grid, sheetName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("sheet %q: %v", sheetName, err))
			continue
		}

		if engineer.CoachName != "" {
			if result.DetectedCoach == "" {
				result.DetectedCoach = engineer.CoachName
			} else if !strings.EqualFold(result.DetectedCoach, engineer.CoachName) {
				p.log.Warn().
					Str("sheet", sheetName).
					Str("detected_coach", result.DetectedCoach).
					Str("sheet_coach", engineer.CoachName).
					Msg("workbook names multiple coaches")
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"sheet %q names coach %q but the workbook coach is %q",
					sheetName, engineer.CoachName, result.DetectedCoach))
			}
		}

		caseCount := 0
		for _, eval := range engineer.Evaluations {
			caseCount += len(eval.Cases)
			if !quarterSeen[eval.Quarter] {
				quarterSeen[eval.Quarter] = true
				result.Quarters = append(result.Quarters, eval.Quarter)
			}
		}
		if caseCount == 0 {
			continue
		}

		result.TotalCases += caseCount
		result.Engineers = append(result.Engineers, *engineer)
	}

	return result
}
