package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// GetActiveAssignment returns the engineer's currently-effective coach
// assignment, or ErrNotFound when none is active.
func (s *Store) GetActiveAssignment(engineerID int64) (*model.CoachAssignment, error) {
	row := s.db.QueryRow(`
		SELECT id, engineer_id, coach_user_id, start_date, end_date, is_active
		FROM coach_assignments
		WHERE engineer_id = ? AND is_active = 1 AND end_date IS NULL
		ORDER BY start_date DESC
		LIMIT 1
	`, engineerID)

	var a model.CoachAssignment
	var end sql.NullTime
	err := row.Scan(&a.ID, &a.EngineerID, &a.CoachUserID, &a.StartDate, &end, &a.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignment: %w", err)
	}
	a.EndDate = timePtr(end)
	return &a, nil
}

// CreateAssignment inserts an active assignment starting at start. Callers
// must verify no active assignment exists immediately before calling; the
// check-then-insert window is the documented duplicate-assignment race.
func (s *Store) CreateAssignment(engineerID, coachUserID int64, start time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO coach_assignments (engineer_id, coach_user_id, start_date, is_active)
		VALUES (?, ?, ?, 1)
	`, engineerID, coachUserID, start)
	if err != nil {
		return 0, fmt.Errorf("failed to create assignment: %w", err)
	}
	return res.LastInsertId()
}

// EndAssignment closes an assignment as of end.
func (s *Store) EndAssignment(id int64, end time.Time) error {
	_, err := s.db.Exec(`
		UPDATE coach_assignments SET end_date = ?, is_active = 0 WHERE id = ?
	`, end, id)
	if err != nil {
		return fmt.Errorf("failed to end assignment: %w", err)
	}
	return nil
}
