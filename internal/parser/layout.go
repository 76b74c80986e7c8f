package parser

// Layout pins the sheet geometry the parser assumes: which row holds the
// name metadata, where the parameter headers sit, and which columns carry
// quarter markers, case numbers, months and notes. Keeping the positions in
// one value isolates the template coupling from the extraction logic, so an
// alternate template only needs a different Layout.
type Layout struct {
	MetadataRow      int
	EngineerNameCols []int
	CoachNameCols    []int

	HeaderRow     int
	ParamStartCol int
	ParamEndCol   int

	QuarterCol    int
	CaseNumberCol int
	MonthCol      int
	NotesCol      int
}

// TemplateLayout describes the coaching template in use: row 1 holds the
// engineer name around columns C-E and the coach name around G-I, row 2
// holds up to seven parameter headers in C-I, column A carries quarter
// markers, column B case numbers, column J months and column K notes.
func TemplateLayout() Layout {
	return Layout{
		MetadataRow:      0,
		EngineerNameCols: []int{2, 3, 4},
		CoachNameCols:    []int{6, 7, 8},
		HeaderRow:        1,
		ParamStartCol:    2,
		ParamEndCol:      8,
		QuarterCol:       0,
		CaseNumberCol:    1,
		MonthCol:         9,
		NotesCol:         10,
	}
}
