package store

import (
	"database/sql"
	"fmt"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// CreateEngineer inserts an active engineer and returns its id. leadUserID
// may be nil when the engineer has no lead.
func (s *Store) CreateEngineer(name string, leadUserID *int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO engineers (name, lead_user_id, is_active)
		VALUES (?, ?, 1)
	`, name, nullInt64(leadUserID))
	if err != nil {
		return 0, fmt.Errorf("failed to create engineer: %w", err)
	}
	return res.LastInsertId()
}

// FindEngineerByName returns the active engineer matching the name
// case-insensitively, or ErrNotFound.
func (s *Store) FindEngineerByName(name string) (*model.Engineer, error) {
	row := s.db.QueryRow(`
		SELECT id, name, lead_user_id, is_active, created_at
		FROM engineers
		WHERE LOWER(name) = LOWER(?) AND is_active = 1
	`, name)
	return scanEngineer(row)
}

// GetEngineerByID returns an engineer by id, or ErrNotFound.
func (s *Store) GetEngineerByID(id int64) (*model.Engineer, error) {
	row := s.db.QueryRow(`
		SELECT id, name, lead_user_id, is_active, created_at
		FROM engineers
		WHERE id = ?
	`, id)
	return scanEngineer(row)
}

// ListEngineers returns all active engineers ordered by name.
func (s *Store) ListEngineers() ([]model.Engineer, error) {
	rows, err := s.db.Query(`
		SELECT id, name, lead_user_id, is_active, created_at
		FROM engineers
		WHERE is_active = 1
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query engineers: %w", err)
	}
	defer rows.Close()

	var engineers []model.Engineer
	for rows.Next() {
		var e model.Engineer
		var lead sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Name, &lead, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan engineer: %w", err)
		}
		e.LeadUserID = int64Ptr(lead)
		engineers = append(engineers, e)
	}
	return engineers, rows.Err()
}

// CountEngineers returns the number of active engineers.
func (s *Store) CountEngineers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM engineers WHERE is_active = 1`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count engineers: %w", err)
	}
	return n, nil
}

func scanEngineer(row *sql.Row) (*model.Engineer, error) {
	var e model.Engineer
	var lead sql.NullInt64
	err := row.Scan(&e.ID, &e.Name, &lead, &e.IsActive, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan engineer: %w", err)
	}
	e.LeadUserID = int64Ptr(lead)
	return &e, nil
}
