package importer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

// DefaultSlotCount is the number of empty case slots pre-allocated on every
// new evaluation.
const DefaultSlotCount = 7

// Committer applies a confirmed preview to the database. Failures are
// contained per engineer: one engineer erroring out never stops the rest,
// and there is no wrapping transaction (partial success by design).
type Committer struct {
	store     *store.Store
	log       zerolog.Logger
	slotCount int
}

// NewCommitter creates a committer. slotCount <= 0 falls back to
// DefaultSlotCount.
func NewCommitter(st *store.Store, logger zerolog.Logger, slotCount int) *Committer {
	if slotCount <= 0 {
		slotCount = DefaultSlotCount
	}
	return &Committer{store: st, log: logger, slotCount: slotCount}
}

// CommitInput carries the caller's confirmed choices for one commit run.
// CoachSelections maps engineer name to a coach user id or one of the
// model.CoachKeepCurrent / model.CoachFromSheet sentinels.
type CommitInput struct {
	Engineers       []model.ParsedEngineer
	Importer        *model.User
	Role            model.ImportRole
	Year            int
	CoachSelections map[string]int64
	Filename        string
}

// commitTotals is the accumulator threaded through the per-engineer steps.
type commitTotals struct {
	engineers   int
	evaluations int
	cases       int
}

func (t commitTotals) add(o commitTotals) commitTotals {
	t.engineers += o.engineers
	t.evaluations += o.evaluations
	t.cases += o.cases
	return t
}

// Commit processes engineers strictly in order. Skip-flagged conflicts are
// re-derived here against live state rather than trusted from the preview,
// since the two calls are independent.
func (c *Committer) Commit(in CommitInput) (*model.ImportResult, error) {
	result := &model.ImportResult{
		SkippedEngineers: []string{},
		Errors:           []string{},
	}

	logID, err := c.store.CreateImportLog(in.Filename, in.Importer.ID)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to create import log")
	}

	totals := commitTotals{}
	for _, engineer := range in.Engineers {
		skip, err := c.shouldSkip(engineer, in.Role)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", engineer.Name, err))
			continue
		}
		if skip {
			result.SkippedEngineers = append(result.SkippedEngineers, engineer.Name)
			continue
		}

		engineerTotals, err := c.importEngineer(engineer, in)
		totals = totals.add(engineerTotals)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", engineer.Name, err))
		}
	}

	result.ImportedEngineers = totals.engineers
	result.ImportedEvaluations = totals.evaluations
	result.ImportedCases = totals.cases
	result.Success = len(result.Errors) == 0

	if logID > 0 {
		if err := c.store.CompleteImportLog(logID, result); err != nil {
			c.log.Warn().Err(err).Msg("failed to complete import log")
		}
	}

	return result, nil
}

// shouldSkip re-derives the coach-import skip rule: the engineer exists,
// holds an active assignment, and the sheet's coach resolves to somebody
// else.
func (c *Committer) shouldSkip(engineer model.ParsedEngineer, role model.ImportRole) (bool, error) {
	if role != model.RoleCoach || engineer.CoachName == "" {
		return false, nil
	}

	sheetCoach, err := c.store.FindCoachByName(engineer.CoachName)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	existing, err := c.store.FindEngineerByName(engineer.Name)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	assignment, err := c.store.GetActiveAssignment(existing.ID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return assignment.CoachUserID != sheetCoach.ID, nil
}

// importEngineer runs the full per-engineer pipeline: resolve or create the
// engineer, resolve the coach assignment, then import evaluations and
// cases. Totals for work already persisted are returned even on error.
func (c *Committer) importEngineer(engineer model.ParsedEngineer, in CommitInput) (commitTotals, error) {
	totals := commitTotals{}

	engineerID, created, err := c.resolveEngineer(engineer.Name, in)
	if err != nil {
		return totals, err
	}
	if created {
		totals.engineers++
	}

	if err := c.resolveCoachAssignment(engineerID, engineer, in); err != nil {
		return totals, err
	}

	// Every evaluation needs an owning coach. Without one the engineer's
	// import is refused outright.
	assignment, err := c.store.GetActiveAssignment(engineerID)
	if errors.Is(err, store.ErrNotFound) {
		return totals, errors.New("no active coach assignment could be resolved")
	}
	if err != nil {
		return totals, err
	}

	evalTotals, err := c.importEvaluations(engineerID, assignment.CoachUserID, engineer, in.Year)
	return totals.add(evalTotals), err
}

// resolveEngineer finds the engineer by name or creates them. A created
// engineer gets the importer as lead only on a lead-role import; this is
// the single lead-on-creation rule.
func (c *Committer) resolveEngineer(name string, in CommitInput) (int64, bool, error) {
	existing, err := c.store.FindEngineerByName(name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, false, err
	}

	var leadID *int64
	if in.Role == model.RoleLead {
		leadID = &in.Importer.ID
	}
	id, err := c.store.CreateEngineer(name, leadID)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// resolveCoachAssignment walks the selection ladder and applies the first
// rule that yields a coach. Assignments are only ever created when the
// engineer lacks an active one at the moment of writing; an explicit
// reassignment first closes the active assignment to keep that invariant.
func (c *Committer) resolveCoachAssignment(engineerID int64, engineer model.ParsedEngineer, in CommitInput) error {
	selection, selected := in.CoachSelections[engineer.Name]

	if selected && selection == model.CoachKeepCurrent {
		return nil
	}

	active, err := c.store.GetActiveAssignment(engineerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	hasActive := err == nil

	var targetID int64
	var explicit bool

	switch {
	case selected && selection > 0:
		coach, err := c.store.GetUserByID(selection)
		if err != nil {
			return fmt.Errorf("selected coach %d: %w", selection, err)
		}
		targetID = coach.ID
		explicit = true

	case selected && selection == model.CoachFromSheet:
		coach, err := c.store.FindCoachByName(engineer.CoachName)
		if err == nil {
			targetID = coach.ID
			explicit = true
			break
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		// The sheet coach no longer resolves; only a coach importer can
		// absorb the assignment themself.
		if in.Role == model.RoleCoach {
			targetID = in.Importer.ID
			explicit = true
		}

	case engineer.CoachName != "" && !hasActive:
		coach, err := c.store.FindCoachByName(engineer.CoachName)
		if err == nil {
			targetID = coach.ID
			break
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		targetID, err = c.fallbackCoach(engineer.Name, in)
		if err != nil {
			return err
		}

	case engineer.CoachName == "" && !hasActive:
		var err error
		targetID, err = c.fallbackCoach(engineer.Name, in)
		if err != nil {
			return err
		}
	}

	if targetID == 0 {
		return nil
	}
	if hasActive && active.CoachUserID == targetID {
		return nil
	}
	if hasActive {
		if !explicit {
			return nil
		}
		if err := c.store.EndAssignment(active.ID, time.Now()); err != nil {
			return err
		}
	}

	// Re-check right before writing; concurrent imports can still race
	// between this check and the insert.
	if current, err := c.store.GetActiveAssignment(engineerID); err == nil && current != nil {
		return nil
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	_, err = c.store.CreateAssignment(engineerID, targetID, time.Now())
	return err
}

// fallbackCoach picks the assignment target when the sheet names no
// resolvable coach: coach importers get themselves, admin/lead importers
// get any available coach as a logged safety net, everyone else gets none.
func (c *Committer) fallbackCoach(engineerName string, in CommitInput) (int64, error) {
	if in.Role == model.RoleCoach {
		return in.Importer.ID, nil
	}

	coach, err := c.store.AnyCoach()
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	c.log.Info().
		Str("engineer", engineerName).
		Str("coach", coach.Name).
		Msg("no coach named in sheet; assigned available coach as fallback")
	return coach.ID, nil
}

// importEvaluations groups the engineer's cases by resolved month and
// creates one evaluation per month, pre-allocating empty slots and filling
// them in slot order before appending new case rows.
func (c *Committer) importEvaluations(engineerID, coachUserID int64, engineer model.ParsedEngineer, year int) (commitTotals, error) {
	totals := commitTotals{}

	byMonth := make(map[int][]model.ParsedCase)
	for _, eval := range engineer.Evaluations {
		for _, parsedCase := range eval.Cases {
			month := resolveMonth(parsedCase.Month)
			byMonth[month] = append(byMonth[month], parsedCase)
		}
	}

	months := make([]int, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Ints(months)

	for _, month := range months {
		date := evaluationDate(year, month)

		exists, err := c.store.EvaluationExists(engineerID, date)
		if err != nil {
			return totals, err
		}
		if exists {
			return totals, fmt.Errorf("evaluation for %s already exists", date.Format("2006-01"))
		}

		evalID, err := c.store.CreateEvaluation(engineerID, coachUserID, date)
		if err != nil {
			return totals, err
		}
		totals.evaluations++

		for slot := 1; slot <= c.slotCount; slot++ {
			if err := c.store.CreateCaseSlot(evalID, slot); err != nil {
				return totals, err
			}
		}

		imported, err := c.importCases(evalID, byMonth[month])
		totals.cases += imported
		if err != nil {
			return totals, err
		}
	}

	return totals, nil
}

// importCases writes one month's cases, reusing empty slots in ascending
// case_number order before appending. A case whose id already exists in
// the evaluation is left alone, which is what makes re-imports idempotent.
func (c *Committer) importCases(evaluationID int64, cases []model.ParsedCase) (int, error) {
	slots, err := c.store.ListEmptySlots(evaluationID)
	if err != nil {
		return 0, err
	}

	imported := 0
	slotIdx := 0
	for _, parsedCase := range cases {
		caseID := strconv.Itoa(parsedCase.CaseNumber)

		exists, err := c.store.CaseIDExists(evaluationID, caseID)
		if err != nil {
			return imported, err
		}
		if exists {
			continue
		}

		fields := mapParameters(parsedCase.Parameters)

		if slotIdx < len(slots) {
			if err := c.store.FillCaseSlot(slots[slotIdx].ID, caseID, fields, parsedCase.Notes); err != nil {
				return imported, err
			}
			slotIdx++
		} else {
			next, err := c.store.MaxCaseNumber(evaluationID)
			if err != nil {
				return imported, err
			}
			if _, err := c.store.AppendCase(evaluationID, next+1, caseID, fields, parsedCase.Notes); err != nil {
				return imported, err
			}
		}
		imported++
	}

	return imported, nil
}

// mapParameters folds the sheet's free-text parameters into the seven fixed
// case fields. Names are applied in sorted order so duplicate headers
// resolve deterministically; unmatched names are dropped.
func mapParameters(params map[string]*bool) model.CaseFields {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := model.CaseFields{}
	for _, name := range names {
		applyParameter(&fields, name, params[name])
	}
	return fields
}
