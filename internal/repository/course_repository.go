package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// CourseRepository reads course records and rosters.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a single course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, code, name, department_id, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListRoster returns the enrolled students of a course with absentee flags.
func (r *CourseRepository) ListRoster(ctx context.Context, courseID string) ([]models.CourseStudent, error) {
	const query = `SELECT e.rollno, s.name, COALESCE(e.absentee_flag, '') AS absentee_flag
        FROM enrollments e
        JOIN students s ON s.rollno = e.rollno
        WHERE e.course_id = $1
        ORDER BY e.rollno`
	var roster []models.CourseStudent
	if err := r.db.SelectContext(ctx, &roster, query, courseID); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return roster, nil
}
