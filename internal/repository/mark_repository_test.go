package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func TestMarkRepositoryListCOMarks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMarkRepository(db)

	rows := sqlmock.NewRows([]string{"student_rollno", "co", "obtained"}).
		AddRow("19CS001", "CO1", 14.0).
		AddRow("19CS001", "CO2", 7.5).
		AddRow("19CS002", "CO1", 9.0)
	mock.ExpectQuery("SELECT student_rollno, co, obtained FROM student_co_marks").
		WithArgs("c1").
		WillReturnRows(rows)

	entries, err := repo.ListCOMarks(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.COMarkEntry{StudentRollNo: "19CS001", CO: "CO2", Obtained: 7.5}, entries[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRepositoryBulkUpsertCOMarks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMarkRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO student_co_marks").
		WithArgs("c1", "19CS001", "CO1", 14.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO student_co_marks").
		WithArgs("c1", "19CS002", "CO1", 9.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BulkUpsertCOMarks(context.Background(), "c1", []models.COMarkEntry{
		{StudentRollNo: "19CS001", CO: "CO1", Obtained: 14},
		{StudentRollNo: "19CS002", CO: "CO1", Obtained: 9},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRepositoryBulkUpsertNoEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMarkRepository(db)

	err := repo.BulkUpsertCOMarks(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
