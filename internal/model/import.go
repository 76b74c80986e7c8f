package model

// ParsedCase is one case row extracted from a sheet. Parameters maps the
// sheet's free-text parameter headers to tri-state values (nil = unknown).
type ParsedCase struct {
	CaseNumber int              `json:"caseNumber"`
	Quarter    string           `json:"quarter"`
	Month      string           `json:"month,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	Parameters map[string]*bool `json:"parameters"`
}

// ParsedEvaluation groups the case rows of one quarter segment.
type ParsedEvaluation struct {
	Quarter string       `json:"quarter"`
	Cases   []ParsedCase `json:"cases"`
}

// ParsedEngineer is everything parsed from one worksheet.
type ParsedEngineer struct {
	Name        string             `json:"name"`
	CoachName   string             `json:"coachName,omitempty"`
	Evaluations []ParsedEvaluation `json:"evaluations"`
}

// ConflictAction tells the caller how a coach conflict will be handled.
type ConflictAction string

const (
	ConflictSkip     ConflictAction = "skip"
	ConflictReassign ConflictAction = "reassign"
	ConflictManual   ConflictAction = "manual"
)

// CoachConflict reports an engineer whose current coach differs from the
// coach named in the workbook.
type CoachConflict struct {
	EngineerName string         `json:"engineerName"`
	CurrentCoach string         `json:"currentCoach"`
	ExcelCoach   string         `json:"excelCoach"`
	Action       ConflictAction `json:"action"`
}

// SuggestedAction tells the caller how a missing coach can be resolved.
type SuggestedAction string

const (
	SuggestAssignToImporter SuggestedAction = "assign_to_importer"
	SuggestManualSelect     SuggestedAction = "manual_select"
)

// MissingCoach reports an engineer whose sheet names no coach, or names one
// that does not match any active coach-role user.
type MissingCoach struct {
	EngineerName    string          `json:"engineerName"`
	ExcelCoachName  string          `json:"excelCoachName,omitempty"`
	SuggestedAction SuggestedAction `json:"suggestedAction"`
}

// OwnershipWarning blocks a coach-role importer from committing a workbook
// that belongs to a different coach.
type OwnershipWarning struct {
	DetectedCoach     string `json:"detectedCoach"`
	ImportingUser     string `json:"importingUser"`
	ShouldBlockImport bool   `json:"shouldBlockImport"`
}

// PreviewMetadata summarizes the workbook as a whole.
type PreviewMetadata struct {
	CoachName  string   `json:"coachName,omitempty"`
	TotalCases int      `json:"totalCases"`
	Quarters   []string `json:"quarters"`
	Filename   string   `json:"filename"`
	UploadID   string   `json:"uploadId,omitempty"`
}

// ImportPreview is the read-only result of parse + reconcile. It carries no
// database ids because nothing has been persisted yet.
type ImportPreview struct {
	Engineers        []ParsedEngineer  `json:"engineers"`
	Conflicts        []CoachConflict   `json:"conflicts"`
	MissingCoaches   []MissingCoach    `json:"missingCoaches"`
	Metadata         PreviewMetadata   `json:"metadata"`
	Errors           []string          `json:"errors"`
	Warnings         []string          `json:"warnings,omitempty"`
	OwnershipWarning *OwnershipWarning `json:"coachOwnershipWarning,omitempty"`
}

// Coach selection sentinels passed by the caller at commit time.
const (
	CoachKeepCurrent int64 = -1 // keep the engineer's current coach
	CoachFromSheet   int64 = -2 // reassign to the coach named in the sheet
)

// ImportResult summarizes a commit run. Success is true iff Errors is empty.
type ImportResult struct {
	Success             bool     `json:"success"`
	ImportedEngineers   int      `json:"importedEngineers"`
	ImportedEvaluations int      `json:"importedEvaluations"`
	ImportedCases       int      `json:"importedCases"`
	SkippedEngineers    []string `json:"skippedEngineers"`
	Errors              []string `json:"errors"`
}
