// package repositories provides the local persistence layer.
//
// The only client-side persistent state is the submission history cache: a
// small SQLite table recording each job created from this machine so the
// input view can list recent jobs without server-side authentication.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/viralclips/clipctl/internal/models"
)

// HistoryRepository records and lists locally submitted jobs.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a HistoryRepository with the given database connection.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Migrate creates the history table if it does not exist.
func (r *HistoryRepository) Migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS history (
			job_id     TEXT PRIMARY KEY,
			url        TEXT NOT NULL,
			duration   INTEGER NOT NULL,
			num_clips  INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

// Record inserts a submitted job. Re-recording the same job id is a no-op.
func (r *HistoryRepository) Record(entry models.HistoryEntry) error {
	if entry.JobID == "" {
		return fmt.Errorf("history entry missing job id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT OR IGNORE INTO history (job_id, url, duration, num_clips, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, entry.JobID, entry.URL, entry.Duration, entry.NumClips, entry.CreatedAt); err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *HistoryRepository) Recent(limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(`
		SELECT job_id, url, duration, num_clips, created_at
		FROM history
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(&entry.JobID, &entry.URL, &entry.Duration, &entry.NumClips, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history row iteration failed: %w", err)
	}

	return entries, nil
}

// Prune deletes all but the newest keep entries.
func (r *HistoryRepository) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}

	query := `
		DELETE FROM history
		WHERE job_id NOT IN (
			SELECT job_id FROM history ORDER BY created_at DESC LIMIT ?
		)
	`
	if _, err := r.db.Exec(query, keep); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}
