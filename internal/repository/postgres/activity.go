package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VedantYeola/Wear-Story/internal/domain"
	"github.com/VedantYeola/Wear-Story/pkg/database"
)

// ActivityRepository is the append-only user_activity_logs table.
type ActivityRepository struct {
	db database.DBTX
}

// NewActivityRepository creates a new PostgreSQL-backed activity sink.
func NewActivityRepository(db database.DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts one entry.
func (r *ActivityRepository) Append(ctx context.Context, e domain.ActivityEntry) (err error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}

	query := `
		INSERT INTO user_activity_logs (id, user_id, user_email, action_type, details, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "AppendActivity", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.UserEmail,
		string(e.ActionType),
		details,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns at most limit entries, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) (_ []domain.ActivityEntry, err error) {
	query := `
		SELECT id::text, user_id, COALESCE(user_email, ''), action_type, details, created_at
		FROM user_activity_logs
		ORDER BY created_at DESC
		LIMIT $1`

	ctx, end := database.TraceQuery(ctx, "RecentActivity", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.ActivityEntry, 0, limit)
	for rows.Next() {
		var (
			e       domain.ActivityEntry
			action  string
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserEmail, &action, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.ActionType = domain.ActionKind(action)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal activity details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return entries, nil
}
