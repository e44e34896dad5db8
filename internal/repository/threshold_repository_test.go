package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestThresholdRepositoryFindByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewThresholdRepository(db)
	configRows := sqlmock.NewRows([]string{"course_id", "co_threshold", "passing_threshold", "updated_at"}).
		AddRow("c1", 60.0, 40.0, time.Now())
	mock.ExpectQuery("SELECT course_id, co_threshold").
		WithArgs("c1").
		WillReturnRows(configRows)
	ladderRows := sqlmock.NewRows([]string{"id", "percentage"}).
		AddRow("t1", 70.0).
		AddRow("t2", 60.0).
		AddRow("t3", 50.0)
	mock.ExpectQuery("SELECT id, percentage FROM attainment_thresholds").
		WithArgs("c1").
		WillReturnRows(ladderRows)

	cfg, err := repo.FindByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.COThreshold)
	assert.Equal(t, 40.0, cfg.PassingThreshold)
	require.Len(t, cfg.Thresholds, 3)
	assert.Equal(t, 70.0, cfg.Thresholds[0].Percentage)
}

func TestThresholdRepositorySave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThresholdRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_thresholds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM attainment_thresholds").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO attainment_thresholds").
		WithArgs(sqlmock.AnyArg(), "c1", 70.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO attainment_thresholds").
		WithArgs(sqlmock.AnyArg(), "c1", 50.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	cfg := &models.ThresholdConfig{
		CourseID:         "c1",
		COThreshold:      60,
		PassingThreshold: 40,
		Thresholds: []models.AttainmentThreshold{
			{Percentage: 70},
			{Percentage: 50},
		},
	}
	require.NoError(t, repo.Save(context.Background(), cfg))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.NotEmpty(t, cfg.Thresholds[0].ID)
}

func TestThresholdRepositorySaveRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewThresholdRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_thresholds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM attainment_thresholds").
		WithArgs("c1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	cfg := &models.ThresholdConfig{CourseID: "c1", Thresholds: []models.AttainmentThreshold{{Percentage: 50}}}
	require.Error(t, repo.Save(context.Background(), cfg))
	require.NoError(t, mock.ExpectationsWereMet())
}
