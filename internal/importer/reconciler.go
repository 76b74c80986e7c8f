package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/parser"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/store"
)

// Reconciler compares a parsed workbook against current database state and
// classifies what can be auto-resolved and what needs human input. It never
// writes, so a preview is safe to repeat.
type Reconciler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(st *store.Store, logger zerolog.Logger) *Reconciler {
	return &Reconciler{store: st, log: logger}
}

// PreviewInput is everything the reconciler needs for one workbook.
type PreviewInput struct {
	Parsed   *parser.WorkbookResult
	Importer *model.User
	Role     model.ImportRole
	Filename string
}

// BuildPreview runs the ownership gate, lead scoping and per-engineer
// conflict analysis, in that order. A coach importing someone else's
// workbook short-circuits: the preview comes back with the ownership
// warning set and no conflict analysis at all.
func (r *Reconciler) BuildPreview(in PreviewInput) (*model.ImportPreview, error) {
	parsed := in.Parsed

	preview := &model.ImportPreview{
		Engineers:      parsed.Engineers,
		Conflicts:      []model.CoachConflict{},
		MissingCoaches: []model.MissingCoach{},
		Errors:         append([]string{}, parsed.Errors...),
		Warnings:       append([]string{}, parsed.Warnings...),
		Metadata: model.PreviewMetadata{
			CoachName:  parsed.DetectedCoach,
			TotalCases: parsed.TotalCases,
			Quarters:   parsed.Quarters,
			Filename:   in.Filename,
		},
	}

	// Ownership gate: a coach may only import their own workbook.
	if in.Role == model.RoleCoach && parsed.DetectedCoach != "" &&
		!strings.EqualFold(parsed.DetectedCoach, in.Importer.Name) {
		preview.OwnershipWarning = &model.OwnershipWarning{
			DetectedCoach:     parsed.DetectedCoach,
			ImportingUser:     in.Importer.Name,
			ShouldBlockImport: true,
		}
		r.log.Warn().
			Str("detected_coach", parsed.DetectedCoach).
			Str("importer", in.Importer.Name).
			Msg("import blocked: workbook belongs to another coach")
		return preview, nil
	}

	// Lead scoping: drop engineers that belong to a different lead.
	if in.Role == model.RoleLead {
		preview.Engineers = r.scopeToLead(preview, in.Importer)
	}

	for _, engineer := range preview.Engineers {
		if err := r.classifyEngineer(preview, engineer, in.Role); err != nil {
			return nil, err
		}
	}

	return preview, nil
}

// scopeToLead keeps only engineers that are new or already under the
// importing lead. Dropped names become warnings, not errors.
func (r *Reconciler) scopeToLead(preview *model.ImportPreview, importer *model.User) []model.ParsedEngineer {
	kept := make([]model.ParsedEngineer, 0, len(preview.Engineers))
	for _, engineer := range preview.Engineers {
		existing, err := r.store.FindEngineerByName(engineer.Name)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			preview.Warnings = append(preview.Warnings, fmt.Sprintf("engineer %q: %v", engineer.Name, err))
			continue
		}
		if existing != nil && existing.LeadUserID != nil && *existing.LeadUserID != importer.ID {
			preview.Warnings = append(preview.Warnings, fmt.Sprintf(
				"engineer %q belongs to a different lead and was excluded", engineer.Name))
			continue
		}
		kept = append(kept, engineer)
	}
	return kept
}

// classifyEngineer records at most one conflict or missing-coach entry per
// engineer: an unresolvable sheet coach first, then a coach mismatch
// against the active assignment, then the no-coach-at-all case.
func (r *Reconciler) classifyEngineer(preview *model.ImportPreview, engineer model.ParsedEngineer, role model.ImportRole) error {
	var sheetCoach *model.User
	if engineer.CoachName != "" {
		var err error
		sheetCoach, err = r.store.FindCoachByName(engineer.CoachName)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("failed to resolve coach %q: %w", engineer.CoachName, err)
			}
			preview.MissingCoaches = append(preview.MissingCoaches, model.MissingCoach{
				EngineerName:    engineer.Name,
				ExcelCoachName:  engineer.CoachName,
				SuggestedAction: suggestedActionFor(role),
			})
			return nil
		}
	}

	if sheetCoach != nil {
		conflict, current, err := r.currentCoachDiffers(engineer.Name, sheetCoach.ID)
		if err != nil {
			return err
		}
		if conflict {
			action := model.ConflictManual
			if role == model.RoleCoach {
				// Coaches never silently reassign another coach's engineer.
				action = model.ConflictSkip
			}
			preview.Conflicts = append(preview.Conflicts, model.CoachConflict{
				EngineerName: engineer.Name,
				CurrentCoach: current,
				ExcelCoach:   engineer.CoachName,
				Action:       action,
			})
		}
		return nil
	}

	preview.MissingCoaches = append(preview.MissingCoaches, model.MissingCoach{
		EngineerName:    engineer.Name,
		SuggestedAction: suggestedActionFor(role),
	})
	return nil
}

// currentCoachDiffers reports whether the engineer exists and holds an
// active assignment to a different coach, returning that coach's name.
func (r *Reconciler) currentCoachDiffers(engineerName string, sheetCoachID int64) (bool, string, error) {
	existing, err := r.store.FindEngineerByName(engineerName)
	if errors.Is(err, store.ErrNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to look up engineer %q: %w", engineerName, err)
	}

	assignment, err := r.store.GetActiveAssignment(existing.ID)
	if errors.Is(err, store.ErrNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to look up assignment for %q: %w", engineerName, err)
	}
	if assignment.CoachUserID == sheetCoachID {
		return false, "", nil
	}

	current, err := r.store.GetUserByID(assignment.CoachUserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, "", fmt.Errorf("failed to look up coach %d: %w", assignment.CoachUserID, err)
	}
	currentName := ""
	if current != nil {
		currentName = current.Name
	}
	return true, currentName, nil
}

func suggestedActionFor(role model.ImportRole) model.SuggestedAction {
	if role == model.RoleCoach {
		return model.SuggestAssignToImporter
	}
	return model.SuggestManualSelect
}
