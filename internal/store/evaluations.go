package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// EvaluationExists reports whether the engineer already has a non-deleted
// evaluation dated exactly date.
func (s *Store) EvaluationExists(engineerID int64, date time.Time) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM evaluations
		WHERE engineer_id = ? AND evaluation_date = ? AND deleted_at IS NULL
	`, engineerID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check evaluation: %w", err)
	}
	return n > 0, nil
}

// CreateEvaluation inserts an evaluation and returns its id.
func (s *Store) CreateEvaluation(engineerID, coachUserID int64, date time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO evaluations (engineer_id, coach_user_id, evaluation_date)
		VALUES (?, ?, ?)
	`, engineerID, coachUserID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to create evaluation: %w", err)
	}
	return res.LastInsertId()
}

// ListEvaluationsByEngineer returns the engineer's non-deleted evaluations,
// newest first.
func (s *Store) ListEvaluationsByEngineer(engineerID int64) ([]model.Evaluation, error) {
	rows, err := s.db.Query(`
		SELECT id, engineer_id, coach_user_id, evaluation_date, deleted_at
		FROM evaluations
		WHERE engineer_id = ? AND deleted_at IS NULL
		ORDER BY evaluation_date DESC
	`, engineerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var evals []model.Evaluation
	for rows.Next() {
		var e model.Evaluation
		var deleted sql.NullTime
		if err := rows.Scan(&e.ID, &e.EngineerID, &e.CoachUserID, &e.EvaluationDate, &deleted); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		e.DeletedAt = timePtr(deleted)
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

// CountEvaluations returns the number of non-deleted evaluations.
func (s *Store) CountEvaluations() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM evaluations WHERE deleted_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return n, nil
}
