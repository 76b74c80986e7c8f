package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// CreateImportLog records the start of a commit run and returns its id.
func (s *Store) CreateImportLog(filename string, userID int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, user_id, status)
		VALUES (?, ?, 'processing')
	`, filename, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// CompleteImportLog finalizes an import log with the run's result.
func (s *Store) CompleteImportLog(id int64, result *model.ImportResult) error {
	status := "completed"
	if !result.Success {
		status = "completed_with_errors"
	}
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			imported_engineers = ?,
			imported_evaluations = ?,
			imported_cases = ?,
			skipped_engineers = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status,
		result.ImportedEngineers,
		result.ImportedEvaluations,
		result.ImportedCases,
		len(result.SkippedEngineers),
		strings.Join(result.Errors, "; "),
		id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImportTime returns the completion time of the most recent import run,
// "" when none has completed.
func (s *Store) LastImportTime() (string, error) {
	var t sql.NullString
	err := s.db.QueryRow(`
		SELECT MAX(completed_at) FROM import_logs WHERE completed_at IS NOT NULL
	`).Scan(&t)
	if err != nil {
		return "", fmt.Errorf("failed to query last import time: %w", err)
	}
	return t.String, nil
}
