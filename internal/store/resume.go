package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ResumePosition is the deep-link record written on every navigation: the
// last active lesson per course, so a session is resumable.
type ResumePosition struct {
	CourseID  string
	ContentID string
	Position  int
	UpdatedAt time.Time
}

// ResumeRepo persists resume positions.
type ResumeRepo interface {
	Save(ctx context.Context, p ResumePosition) error
	Get(ctx context.Context, courseID string) (*ResumePosition, error)
	Clear(ctx context.Context, courseID string) error
}

type sqliteResumeRepo struct {
	db *sql.DB
}

func (r *sqliteResumeRepo) Save(ctx context.Context, p ResumePosition) error {
	query := `INSERT INTO resume_positions (course_id, content_id, position, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (course_id) DO UPDATE SET
			content_id = excluded.content_id,
			position = excluded.position,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.CourseID,
		p.ContentID,
		p.Position,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving resume position: %w", err)
	}
	return nil
}

func (r *sqliteResumeRepo) Get(ctx context.Context, courseID string) (*ResumePosition, error) {
	query := `SELECT course_id, content_id, position, updated_at
		FROM resume_positions WHERE course_id = ?`
	row := r.db.QueryRowContext(ctx, query, courseID)

	var p ResumePosition
	var updatedAt string
	err := row.Scan(&p.CourseID, &p.ContentID, &p.Position, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading resume position: %w", err)
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func (r *sqliteResumeRepo) Clear(ctx context.Context, courseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resume_positions WHERE course_id = ?`, courseID)
	if err != nil {
		return fmt.Errorf("clearing resume position: %w", err)
	}
	return nil
}
