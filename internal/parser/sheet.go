package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// twoWordName accepts trimmed strings with at least two whitespace-separated
// tokens ("Jane Doe", "Sam van Lee"). Single tokens and empty cells fail.
var twoWordName = regexp.MustCompile(`^\S+\s+\S+`)

// quarterMarker matches Q1-Q4 case-insensitively in the quarter column.
var quarterMarker = regexp.MustCompile(`(?i)\bQ([1-4])\b`)

// Parameter is one evaluation parameter header bound to its column.
type Parameter struct {
	Name string
	Col  int
}

type quarterSegment struct {
	label    string
	startRow int
	endRow   int
}

// SheetParser extracts one engineer's evaluations from a normalized grid.
type SheetParser struct {
	layout Layout
}

// NewSheetParser creates a sheet parser for the given layout.
func NewSheetParser(layout Layout) *SheetParser {
	return &SheetParser{layout: layout}
}

// Parse walks one sheet's grid and builds the parsed engineer. The sheet
// name is the fallback engineer name when the metadata row has none. A
// quarter segment without case rows is dropped, not reported.
func (p *SheetParser) Parse(grid Grid, sheetName string) (*model.ParsedEngineer, error) {
	if len(grid) == 0 {
		return nil, errors.New("sheet is empty")
	}

	engineer := &model.ParsedEngineer{
		Name:      p.findName(grid, p.layout.EngineerNameCols),
		CoachName: p.findName(grid, p.layout.CoachNameCols),
	}
	if engineer.Name == "" {
		engineer.Name = strings.TrimSpace(sheetName)
	}

	params := p.locateParameters(grid)

	for _, seg := range p.segmentQuarters(grid) {
		cases := p.extractCases(grid, seg, params)
		if len(cases) == 0 {
			continue
		}
		engineer.Evaluations = append(engineer.Evaluations, model.ParsedEvaluation{
			Quarter: seg.label,
			Cases:   cases,
		})
	}

	return engineer, nil
}

// findName scans the metadata row's candidate columns in order and returns
// the first trimmed value that looks like a full name, or "".
func (p *SheetParser) findName(grid Grid, cols []int) string {
	for _, col := range cols {
		v, ok := grid.Cell(p.layout.MetadataRow, col)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if twoWordName.MatchString(v) {
			return v
		}
	}
	return ""
}

// locateParameters reads the header row and binds each non-empty cell to
// its column. Names are the trimmed cell text as-is; normalization happens
// only at commit time.
func (p *SheetParser) locateParameters(grid Grid) []Parameter {
	var params []Parameter
	for col := p.layout.ParamStartCol; col <= p.layout.ParamEndCol; col++ {
		v, ok := grid.Cell(p.layout.HeaderRow, col)
		if !ok {
			continue
		}
		name := strings.TrimSpace(v)
		if name == "" {
			continue
		}
		params = append(params, Parameter{Name: name, Col: col})
	}
	return params
}

// segmentQuarters partitions the sheet into row ranges delimited by quarter
// markers. Segments come out in physical sheet order even when the labels
// are out of sequence.
func (p *SheetParser) segmentQuarters(grid Grid) []quarterSegment {
	var segments []quarterSegment
	for row := range grid {
		v, ok := grid.Cell(row, p.layout.QuarterCol)
		if !ok {
			continue
		}
		m := quarterMarker.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		if n := len(segments); n > 0 {
			segments[n-1].endRow = row - 1
		}
		segments = append(segments, quarterSegment{
			label:    "Q" + m[1],
			startRow: row,
			endRow:   len(grid) - 1,
		})
	}
	return segments
}

// extractCases collects the case rows of one quarter segment. A row is a
// case row iff its case-number cell parses as a number; the number is taken
// as-is with no range or uniqueness checks.
func (p *SheetParser) extractCases(grid Grid, seg quarterSegment, params []Parameter) []model.ParsedCase {
	var cases []model.ParsedCase
	for row := seg.startRow; row <= seg.endRow && row < len(grid); row++ {
		raw, ok := grid.Cell(row, p.layout.CaseNumberCol)
		if !ok {
			continue
		}
		num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}

		c := model.ParsedCase{
			CaseNumber: int(num),
			Quarter:    seg.label,
			Parameters: make(map[string]*bool, len(params)),
		}
		if v, ok := grid.Cell(row, p.layout.MonthCol); ok {
			c.Month = strings.TrimSpace(v)
		}
		if v, ok := grid.Cell(row, p.layout.NotesCol); ok {
			c.Notes = strings.TrimSpace(v)
		}
		for _, param := range params {
			v, _ := grid.Cell(row, param.Col)
			c.Parameters[param.Name] = ParseTriState(v)
		}

		cases = append(cases, c)
	}
	return cases
}
