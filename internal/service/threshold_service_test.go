package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

type thresholdRepoStub struct {
	cfg   *models.ThresholdConfig
	saved *models.ThresholdConfig
	err   error
}

func (s *thresholdRepoStub) FindByCourse(ctx context.Context, courseID string) (*models.ThresholdConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return &models.ThresholdConfig{CourseID: courseID}, nil
	}
	return s.cfg, nil
}

func (s *thresholdRepoStub) Save(ctx context.Context, cfg *models.ThresholdConfig) error {
	if s.err != nil {
		return s.err
	}
	s.saved = cfg
	return nil
}

func TestThresholdServiceGetAppliesDefaults(t *testing.T) {
	svc := NewThresholdService(&thresholdRepoStub{}, nil, EngineDefaults{COThreshold: 60, PassingThreshold: 40}, nil, nil)

	cfg, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.COThreshold)
	assert.Equal(t, 40.0, cfg.PassingThreshold)
	assert.Empty(t, cfg.Thresholds)
}

func TestThresholdServiceGetKeepsStoredValues(t *testing.T) {
	repo := &thresholdRepoStub{cfg: defaultThresholdConfig()}
	svc := NewThresholdService(repo, nil, EngineDefaults{COThreshold: 55, PassingThreshold: 35}, nil, nil)

	cfg, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.COThreshold)
	require.Len(t, cfg.Thresholds, 3)
}

func TestThresholdServiceSave(t *testing.T) {
	repo := &thresholdRepoStub{}
	svc := NewThresholdService(repo, nil, EngineDefaults{}, nil, nil)

	cfg, err := svc.Save(context.Background(), "c1", SaveThresholdsRequest{
		COThreshold:      60,
		PassingThreshold: 40,
		Thresholds:       []float64{70, 60, 50},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "c1", repo.saved.CourseID)
	assert.Len(t, cfg.Thresholds, 3)
}

func TestThresholdServiceSaveRejectsDuplicates(t *testing.T) {
	repo := &thresholdRepoStub{}
	svc := NewThresholdService(repo, nil, EngineDefaults{}, nil, nil)

	_, err := svc.Save(context.Background(), "c1", SaveThresholdsRequest{
		COThreshold:      60,
		PassingThreshold: 40,
		Thresholds:       []float64{70, 70, 50},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidThresholds.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.saved)
}

func TestThresholdServiceSaveRejectsOutOfRange(t *testing.T) {
	svc := NewThresholdService(&thresholdRepoStub{}, nil, EngineDefaults{}, nil, nil)

	_, err := svc.Save(context.Background(), "c1", SaveThresholdsRequest{
		COThreshold:      60,
		PassingThreshold: 40,
		Thresholds:       []float64{70, 120},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestThresholdServiceSaveRequiresLadder(t *testing.T) {
	svc := NewThresholdService(&thresholdRepoStub{}, nil, EngineDefaults{}, nil, nil)

	_, err := svc.Save(context.Background(), "c1", SaveThresholdsRequest{
		COThreshold:      60,
		PassingThreshold: 40,
	})
	require.Error(t, err)
}
