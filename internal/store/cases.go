package store

import (
	"database/sql"
	"fmt"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

const caseColumns = `id, evaluation_id, case_number, case_id,
	kb_potential, article_linked, article_improved, improvement_opportunity,
	article_created, create_opportunity, relevant_link, notes, deleted_at`

// CreateCaseSlot pre-allocates an empty case slot (no case_id) for an
// evaluation.
func (s *Store) CreateCaseSlot(evaluationID int64, caseNumber int) error {
	_, err := s.db.Exec(`
		INSERT INTO case_evaluations (evaluation_id, case_number, case_id)
		VALUES (?, ?, '')
	`, evaluationID, caseNumber)
	if err != nil {
		return fmt.Errorf("failed to create case slot: %w", err)
	}
	return nil
}

// ListEmptySlots returns the evaluation's unused slots in ascending
// case_number order.
func (s *Store) ListEmptySlots(evaluationID int64) ([]model.CaseEvaluation, error) {
	rows, err := s.db.Query(`
		SELECT `+caseColumns+`
		FROM case_evaluations
		WHERE evaluation_id = ? AND case_id = '' AND deleted_at IS NULL
		ORDER BY case_number
	`, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query empty slots: %w", err)
	}
	defer rows.Close()
	return scanCases(rows)
}

// ListCases returns the evaluation's non-deleted case rows in ascending
// case_number order.
func (s *Store) ListCases(evaluationID int64) ([]model.CaseEvaluation, error) {
	rows, err := s.db.Query(`
		SELECT `+caseColumns+`
		FROM case_evaluations
		WHERE evaluation_id = ? AND deleted_at IS NULL
		ORDER BY case_number
	`, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()
	return scanCases(rows)
}

// CaseIDExists reports whether a non-deleted case with this case_id already
// belongs to the evaluation.
func (s *Store) CaseIDExists(evaluationID int64, caseID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM case_evaluations
		WHERE evaluation_id = ? AND case_id = ? AND deleted_at IS NULL
	`, evaluationID, caseID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check case id: %w", err)
	}
	return n > 0, nil
}

// FillCaseSlot populates a pre-allocated slot with imported case data.
func (s *Store) FillCaseSlot(slotID int64, caseID string, fields model.CaseFields, notes string) error {
	_, err := s.db.Exec(`
		UPDATE case_evaluations SET
			case_id = ?,
			kb_potential = ?,
			article_linked = ?,
			article_improved = ?,
			improvement_opportunity = ?,
			article_created = ?,
			create_opportunity = ?,
			relevant_link = ?,
			notes = ?
		WHERE id = ?
	`, caseID,
		nullBool(fields.KBPotential),
		nullBool(fields.ArticleLinked),
		nullBool(fields.ArticleImproved),
		nullBool(fields.ImprovementOpportunity),
		nullBool(fields.ArticleCreated),
		nullBool(fields.CreateOpportunity),
		nullBool(fields.RelevantLink),
		notes, slotID)
	if err != nil {
		return fmt.Errorf("failed to fill case slot: %w", err)
	}
	return nil
}

// AppendCase adds a new case row to an evaluation once all pre-allocated
// slots are consumed.
func (s *Store) AppendCase(evaluationID int64, caseNumber int, caseID string, fields model.CaseFields, notes string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO case_evaluations (
			evaluation_id, case_number, case_id,
			kb_potential, article_linked, article_improved, improvement_opportunity,
			article_created, create_opportunity, relevant_link, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, evaluationID, caseNumber, caseID,
		nullBool(fields.KBPotential),
		nullBool(fields.ArticleLinked),
		nullBool(fields.ArticleImproved),
		nullBool(fields.ImprovementOpportunity),
		nullBool(fields.ArticleCreated),
		nullBool(fields.CreateOpportunity),
		nullBool(fields.RelevantLink),
		notes)
	if err != nil {
		return 0, fmt.Errorf("failed to append case: %w", err)
	}
	return res.LastInsertId()
}

// MaxCaseNumber returns the highest case_number in the evaluation, 0 when
// it has no case rows.
func (s *Store) MaxCaseNumber(evaluationID int64) (int, error) {
	var n sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(case_number) FROM case_evaluations
		WHERE evaluation_id = ? AND deleted_at IS NULL
	`, evaluationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to query max case number: %w", err)
	}
	return int(n.Int64), nil
}

// CountCases returns the number of non-deleted, populated case rows.
func (s *Store) CountCases() (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM case_evaluations WHERE case_id != '' AND deleted_at IS NULL
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return n, nil
}

func scanCases(rows *sql.Rows) ([]model.CaseEvaluation, error) {
	var cases []model.CaseEvaluation
	for rows.Next() {
		var c model.CaseEvaluation
		var kb, linked, improved, improveOpp, created, createOpp, relevant sql.NullBool
		var deleted sql.NullTime
		err := rows.Scan(&c.ID, &c.EvaluationID, &c.CaseNumber, &c.CaseID,
			&kb, &linked, &improved, &improveOpp, &created, &createOpp, &relevant,
			&c.Notes, &deleted)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		c.KBPotential = boolPtr(kb)
		c.ArticleLinked = boolPtr(linked)
		c.ArticleImproved = boolPtr(improved)
		c.ImprovementOpportunity = boolPtr(improveOpp)
		c.ArticleCreated = boolPtr(created)
		c.CreateOpportunity = boolPtr(createOpp)
		c.RelevantLink = boolPtr(relevant)
		c.DeletedAt = timePtr(deleted)
		cases = append(cases, c)
	}
	return cases, rows.Err()
}
