package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// MarkRepository handles raw per-question marks and imported CO totals.
type MarkRepository struct {
	db *sqlx.DB
}

// NewMarkRepository creates a new mark repository.
func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// ListByCourse returns every raw mark recorded against the course's tests.
func (r *MarkRepository) ListByCourse(ctx context.Context, courseID string) ([]models.RawMark, error) {
	const query = `SELECT m.student_rollno, m.test_id, m.question_key, m.marks_obtained
        FROM raw_marks m
        JOIN tests t ON t.id = m.test_id
        WHERE t.course_id = $1`
	var marks []models.RawMark
	if err := r.db.SelectContext(ctx, &marks, query, courseID); err != nil {
		return nil, fmt.Errorf("list raw marks: %w", err)
	}
	return marks, nil
}

// ListCOMarks returns the imported per-student CO totals for a course. The
// attainment computation overlays these onto the raw-mark aggregates.
func (r *MarkRepository) ListCOMarks(ctx context.Context, courseID string) ([]models.COMarkEntry, error) {
	const query = `SELECT student_rollno, co, obtained FROM student_co_marks
        WHERE course_id = $1`
	var entries []models.COMarkEntry
	if err := r.db.SelectContext(ctx, &entries, query, courseID); err != nil {
		return nil, fmt.Errorf("list co marks: %w", err)
	}
	return entries, nil
}

// BulkUpsertCOMarks overwrites imported per-student CO totals for a course in
// one transaction.
func (r *MarkRepository) BulkUpsertCOMarks(ctx context.Context, courseID string, entries []models.COMarkEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO student_co_marks (course_id, student_rollno, co, obtained)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (course_id, student_rollno, co)
        DO UPDATE SET obtained = EXCLUDED.obtained`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query, courseID, entry.StudentRollNo, entry.CO, entry.Obtained); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert co mark: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit co marks: %w", err)
	}
	return nil
}
