package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event kinds recorded in the local history.
const (
	KindVisit      = "visit"
	KindCompletion = "completion"
	KindMentorAsk  = "mentor_ask"
)

// HistoryEvent is one append-only record of learner activity.
type HistoryEvent struct {
	ID        string
	Kind      string
	CourseID  string
	ContentID string
	// Trigger is "manual" or "auto" for completion events, empty otherwise.
	Trigger   string
	Detail    string
	CreatedAt time.Time
}

// HistoryRepo records and lists learner activity. Writes are best-effort:
// callers log a warning and carry on when appending fails.
type HistoryRepo interface {
	Append(ctx context.Context, e HistoryEvent) error
	ListRecent(ctx context.Context, courseID string, limit int) ([]HistoryEvent, error)
	CountByKind(ctx context.Context, courseID, kind string) (int, error)
}

type sqliteHistoryRepo struct {
	db *sql.DB
}

func (r *sqliteHistoryRepo) Append(ctx context.Context, e HistoryEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO history_events (id, kind, course_id, content_id, trigger_by, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Kind,
		e.CourseID,
		e.ContentID,
		e.Trigger,
		e.Detail,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending history event: %w", err)
	}
	return nil
}

func (r *sqliteHistoryRepo) ListRecent(ctx context.Context, courseID string, limit int) ([]HistoryEvent, error) {
	query := `SELECT id, kind, course_id, content_id, trigger_by, detail, created_at
		FROM history_events WHERE course_id = ?
		ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, courseID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEvent
	for rows.Next() {
		var e HistoryEvent
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.CourseID, &e.ContentID, &e.Trigger, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history event: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *sqliteHistoryRepo) CountByKind(ctx context.Context, courseID, kind string) (int, error) {
	query := `SELECT COUNT(*) FROM history_events WHERE course_id = ? AND kind = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, query, courseID, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history events: %w", err)
	}
	return n, nil
}
