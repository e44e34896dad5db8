package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// TestRepository handles test and question persistence.
type TestRepository struct {
	db *sqlx.DB
}

// NewTestRepository creates a new test repository.
func NewTestRepository(db *sqlx.DB) *TestRepository {
	return &TestRepository{db: db}
}

// ListByCourse returns all tests of a course.
func (r *TestRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Test, error) {
	const query = `SELECT id, course_id, name, full_marks, pass_marks, created_at, updated_at
        FROM tests WHERE course_id = $1 ORDER BY created_at`
	var tests []models.Test
	if err := r.db.SelectContext(ctx, &tests, query, courseID); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

// ListQuestionsByCourse returns every question of the course keyed by test ID.
func (r *TestRepository) ListQuestionsByCourse(ctx context.Context, courseID string) (map[string][]models.Question, error) {
	const query = `SELECT q.id, q.test_id, q.number, COALESCE(q.sub_question, '') AS sub_question, q.co, q.max_marks, q.is_optional
        FROM questions q
        JOIN tests t ON t.id = q.test_id
        WHERE t.course_id = $1
        ORDER BY q.test_id, q.number, q.sub_question`
	rows, err := r.db.QueryxContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	result := make(map[string][]models.Question)
	for rows.Next() {
		var question models.Question
		if err := rows.StructScan(&question); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		result[question.TestID] = append(result[question.TestID], question)
	}
	return result, nil
}

// CreateWithQuestions inserts a test and its question set in one transaction.
func (r *TestRepository) CreateWithQuestions(ctx context.Context, test *models.Test, questions []models.Question) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	test.CreatedAt = now
	test.UpdatedAt = now
	const testQuery = `INSERT INTO tests (id, course_id, name, full_marks, pass_marks, created_at, updated_at)
        VALUES (:id, :course_id, :name, :full_marks, :pass_marks, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, testQuery, test); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("insert test: %w", err)
	}
	const questionQuery = `INSERT INTO questions (id, test_id, number, sub_question, co, max_marks, is_optional)
        VALUES (:id, :test_id, :number, :sub_question, :co, :max_marks, :is_optional)`
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].TestID = test.ID
		if _, err := tx.NamedExecContext(ctx, questionQuery, questions[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert question: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit test: %w", err)
	}
	return nil
}
