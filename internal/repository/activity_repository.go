package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// ActivityRepository provides data access methods for the activity table.
// It stores the outcome of dashboard actions for the history view.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// InsertActivity stores a single activity record.
func (r *ActivityRepository) InsertActivity(ctx context.Context, a model.Activity) error {
	query := `
		INSERT INTO activity (id, action, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		string(a.Action),
		string(a.Status),
		a.Detail,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// GetRecentActivity returns at most limit activities, newest first.
// Returns an empty slice if nothing has been recorded.
func (r *ActivityRepository) GetRecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	query := `
		SELECT id, action, status, detail, created_at
		FROM activity
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity table: %w", err)
	}
	defer rows.Close()

	activities := []model.Activity{}

	for rows.Next() {
		var (
			a         model.Activity
			action    string
			status    string
			detail    sql.NullString
			createdAt string
		)

		if err := rows.Scan(&a.ID, &action, &status, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity table results: %w", err)
		}

		a.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		a.Action = model.Action(action)
		a.Status = model.ActivityStatus(status)
		a.Detail = detail.String

		activities = append(activities, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity table: %w", err)
	}

	return activities, nil
}

// CountActivity returns the number of stored activity records.
func (r *ActivityRepository) CountActivity(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return count, nil
}
