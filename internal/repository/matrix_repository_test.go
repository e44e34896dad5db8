package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func TestMatrixRepositoryFindByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatrixRepository(db)

	rows := sqlmock.NewRows([]string{"co", "po", "value"}).
		AddRow("CO1", "PO1", 3).
		AddRow("CO2", "PSO2", 1).
		AddRow("CO9", "PO1", 2) // unknown CO, ignored
	mock.ExpectQuery("SELECT co, po, value FROM correlation_matrix").
		WithArgs("c1").
		WillReturnRows(rows)

	matrix, err := repo.FindByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, matrix.Value("CO1", "PO1"))
	assert.Equal(t, 1, matrix.Value("CO2", "PSO2"))
	// cells without a stored row read back as zero
	assert.Equal(t, 0, matrix.Value("CO3", "PO5"))
	_, ok := matrix["CO9"]
	assert.False(t, ok)
}

func TestMatrixRepositorySaveSkipsZeroCells(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMatrixRepository(db)

	matrix := models.NewCorrelationMatrix()
	matrix["CO1"]["PO1"] = 3
	matrix["CO3"]["PSO1"] = 2

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM correlation_matrix").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO correlation_matrix").
		WithArgs("c1", "CO1", "PO1", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO correlation_matrix").
		WithArgs("c1", "CO3", "PSO1", 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), "c1", matrix))
	require.NoError(t, mock.ExpectationsWereMet())
}
