package store

import (
	"database/sql"
	"fmt"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// CreateUser inserts a user and returns its id.
func (s *Store) CreateUser(name string, isAdmin, isCoach, isLead, isManager bool) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO users (name, is_admin, is_coach, is_lead, is_manager)
		VALUES (?, ?, ?, ?, ?)
	`, name, isAdmin, isCoach, isLead, isManager)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return res.LastInsertId()
}

// GetUserByID returns a non-deleted user by id.
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, is_admin, is_coach, is_lead, is_manager, created_at, deleted_at
		FROM users
		WHERE id = ? AND deleted_at IS NULL
	`, id)
	return scanUser(row)
}

// FindCoachByName returns the active coach-role user matching the name
// case-insensitively, or ErrNotFound.
func (s *Store) FindCoachByName(name string) (*model.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, is_admin, is_coach, is_lead, is_manager, created_at, deleted_at
		FROM users
		WHERE LOWER(name) = LOWER(?) AND is_coach = 1 AND deleted_at IS NULL
	`, name)
	return scanUser(row)
}

// ListCoaches returns all active coach-role users ordered by name.
func (s *Store) ListCoaches() ([]model.User, error) {
	return s.listUsers(`
		SELECT id, name, is_admin, is_coach, is_lead, is_manager, created_at, deleted_at
		FROM users
		WHERE is_coach = 1 AND deleted_at IS NULL
		ORDER BY name
	`)
}

// ListUsers returns all non-deleted users ordered by name.
func (s *Store) ListUsers() ([]model.User, error) {
	return s.listUsers(`
		SELECT id, name, is_admin, is_coach, is_lead, is_manager, created_at, deleted_at
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY name
	`)
}

// AnyCoach returns the lowest-id active coach-role user, used as the
// admin/lead import fallback when no coach can be resolved.
func (s *Store) AnyCoach() (*model.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, is_admin, is_coach, is_lead, is_manager, created_at, deleted_at
		FROM users
		WHERE is_coach = 1 AND deleted_at IS NULL
		ORDER BY id
		LIMIT 1
	`)
	return scanUser(row)
}

func (s *Store) listUsers(query string, args ...interface{}) ([]model.User, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var deleted sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.IsAdmin, &u.IsCoach, &u.IsLead, &u.IsManager, &u.CreatedAt, &deleted); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.DeletedAt = timePtr(deleted)
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var deleted sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.IsAdmin, &u.IsCoach, &u.IsLead, &u.IsManager, &u.CreatedAt, &deleted)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.DeletedAt = timePtr(deleted)
	return &u, nil
}
