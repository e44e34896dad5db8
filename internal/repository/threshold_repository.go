package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// ThresholdRepository persists the per-course attainment configuration.
type ThresholdRepository struct {
	db *sqlx.DB
}

// NewThresholdRepository creates a new threshold repository.
func NewThresholdRepository(db *sqlx.DB) *ThresholdRepository {
	return &ThresholdRepository{db: db}
}

// FindByCourse loads the threshold configuration as a unit.
func (r *ThresholdRepository) FindByCourse(ctx context.Context, courseID string) (*models.ThresholdConfig, error) {
	const configQuery = `SELECT course_id, co_threshold, passing_threshold, updated_at
        FROM course_thresholds WHERE course_id = $1`
	cfg := models.ThresholdConfig{CourseID: courseID}
	if err := r.db.GetContext(ctx, &cfg, configQuery, courseID); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load course thresholds: %w", err)
	}
	const ladderQuery = `SELECT id, percentage FROM attainment_thresholds
        WHERE course_id = $1 ORDER BY percentage DESC`
	if err := r.db.SelectContext(ctx, &cfg.Thresholds, ladderQuery, courseID); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list thresholds: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration atomically: the course row is upserted and
// the ladder replaced wholesale, so a rejected save leaves nothing behind.
func (r *ThresholdRepository) Save(ctx context.Context, cfg *models.ThresholdConfig) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	cfg.UpdatedAt = time.Now().UTC()
	const configQuery = `INSERT INTO course_thresholds (course_id, co_threshold, passing_threshold, updated_at)
        VALUES (:course_id, :co_threshold, :passing_threshold, :updated_at)
        ON CONFLICT (course_id)
        DO UPDATE SET co_threshold = EXCLUDED.co_threshold,
            passing_threshold = EXCLUDED.passing_threshold,
            updated_at = EXCLUDED.updated_at`
	if _, err := tx.NamedExecContext(ctx, configQuery, cfg); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("upsert course thresholds: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attainment_thresholds WHERE course_id = $1`, cfg.CourseID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear thresholds: %w", err)
	}
	const insertQuery = `INSERT INTO attainment_thresholds (id, course_id, percentage) VALUES ($1, $2, $3)`
	for i := range cfg.Thresholds {
		if cfg.Thresholds[i].ID == "" {
			cfg.Thresholds[i].ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, insertQuery, cfg.Thresholds[i].ID, cfg.CourseID, cfg.Thresholds[i].Percentage); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert threshold: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit thresholds: %w", err)
	}
	return nil
}
