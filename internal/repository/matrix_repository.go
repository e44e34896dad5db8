package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// MatrixRepository persists CO/PO correlation matrices per course.
type MatrixRepository struct {
	db *sqlx.DB
}

// NewMatrixRepository creates a new matrix repository.
func NewMatrixRepository(db *sqlx.DB) *MatrixRepository {
	return &MatrixRepository{db: db}
}

type matrixRow struct {
	CO    string `db:"co"`
	PO    string `db:"po"`
	Value int    `db:"value"`
}

// FindByCourse loads the stored matrix, zero-filled over the fixed labels.
func (r *MatrixRepository) FindByCourse(ctx context.Context, courseID string) (models.CorrelationMatrix, error) {
	const query = `SELECT co, po, value FROM correlation_matrix WHERE course_id = $1`
	var rows []matrixRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	matrix := models.NewCorrelationMatrix()
	for _, row := range rows {
		if _, ok := matrix[row.CO]; !ok {
			continue
		}
		matrix[row.CO][row.PO] = row.Value
	}
	return matrix, nil
}

// Save replaces the stored matrix as a unit. Only non-zero cells are kept;
// absent cells read back as zero.
func (r *MatrixRepository) Save(ctx context.Context, courseID string, matrix models.CorrelationMatrix) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM correlation_matrix WHERE course_id = $1`, courseID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear matrix: %w", err)
	}
	const insertQuery = `INSERT INTO correlation_matrix (course_id, co, po, value) VALUES ($1, $2, $3, $4)`
	for _, co := range models.COLabels {
		for _, po := range models.POLabels {
			value := matrix.Value(co, po)
			if value == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, insertQuery, courseID, co, po, value); err != nil {
				tx.Rollback() //nolint:errcheck
				return fmt.Errorf("insert matrix cell: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit matrix: %w", err)
	}
	return nil
}
