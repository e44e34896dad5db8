package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/internal/attainment"
	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

type thresholdRepository interface {
	FindByCourse(ctx context.Context, courseID string) (*models.ThresholdConfig, error)
	Save(ctx context.Context, cfg *models.ThresholdConfig) error
}

// SaveThresholdsRequest carries the full per-course configuration. The ladder
// is replaced wholesale on every save.
type SaveThresholdsRequest struct {
	COThreshold      float64   `json:"co_threshold" validate:"required,gt=0,lte=100"`
	PassingThreshold float64   `json:"passing_threshold" validate:"required,gt=0,lte=100"`
	Thresholds       []float64 `json:"attainment_thresholds" validate:"required,min=1,dive,gte=0,lte=100"`
}

// ThresholdService manages the per-course attainment configuration.
type ThresholdService struct {
	repo      thresholdRepository
	cache     *CacheService
	defaults  EngineDefaults
	validator *validator.Validate
	logger    *zap.Logger
}

// NewThresholdService constructs a threshold service.
func NewThresholdService(repo thresholdRepository, cache *CacheService, defaults EngineDefaults, validate *validator.Validate, logger *zap.Logger) *ThresholdService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThresholdService{repo: repo, cache: cache, defaults: defaults, validator: validate, logger: logger}
}

// Get returns the course configuration, falling back to engine defaults for
// threshold values that have never been set.
func (s *ThresholdService) Get(ctx context.Context, courseID string) (*models.ThresholdConfig, error) {
	cfg, err := s.repo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load thresholds")
	}
	if cfg.COThreshold <= 0 {
		cfg.COThreshold = s.defaults.COThreshold
	}
	if cfg.PassingThreshold <= 0 {
		cfg.PassingThreshold = s.defaults.PassingThreshold
	}
	return cfg, nil
}

// Save validates and persists the configuration atomically. An invalid ladder
// rejects the whole request and leaves the stored configuration untouched.
func (s *ThresholdService) Save(ctx context.Context, courseID string, req SaveThresholdsRequest) (*models.ThresholdConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid threshold payload")
	}
	cfg := &models.ThresholdConfig{
		CourseID:         courseID,
		COThreshold:      req.COThreshold,
		PassingThreshold: req.PassingThreshold,
		Thresholds:       make([]models.AttainmentThreshold, 0, len(req.Thresholds)),
	}
	for _, pct := range req.Thresholds {
		cfg.Thresholds = append(cfg.Thresholds, models.AttainmentThreshold{Percentage: pct})
	}
	if _, err := attainment.NewLadder(cfg.Thresholds); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidThresholds.Code, appErrors.ErrInvalidThresholds.Status, err.Error())
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save thresholds")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, attainmentCacheKey(courseID)); err != nil {
			s.logger.Warn("invalidate report cache", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	return cfg, nil
}
