package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/internal/attainment"
	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

// CourseReader describes course lookups required by AttainmentService.
type CourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListRoster(ctx context.Context, courseID string) ([]models.CourseStudent, error)
}

// TestReader loads a course's tests and question schemes.
type TestReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Test, error)
	ListQuestionsByCourse(ctx context.Context, courseID string) (map[string][]models.Question, error)
}

// MarkReader loads raw per-question marks and imported CO totals for a course.
type MarkReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.RawMark, error)
	ListCOMarks(ctx context.Context, courseID string) ([]models.COMarkEntry, error)
}

// ThresholdReader loads the per-course threshold configuration.
type ThresholdReader interface {
	FindByCourse(ctx context.Context, courseID string) (*models.ThresholdConfig, error)
}

// MatrixReader loads the stored correlation matrix for a course.
type MatrixReader interface {
	FindByCourse(ctx context.Context, courseID string) (models.CorrelationMatrix, error)
}

// EngineDefaults seeds threshold values for courses that have not been configured yet.
type EngineDefaults struct {
	COThreshold      float64
	PassingThreshold float64
}

// AttainmentService assembles course data and runs the attainment computation,
// with cache integration for the resulting report.
type AttainmentService struct {
	courses    CourseReader
	tests      TestReader
	marks      MarkReader
	thresholds ThresholdReader
	matrices   MatrixReader
	cache      *CacheService
	metrics    *MetricsService
	defaults   EngineDefaults
	logger     *zap.Logger
}

// NewAttainmentService constructs an attainment service.
func NewAttainmentService(courses CourseReader, tests TestReader, marks MarkReader, thresholds ThresholdReader, matrices MatrixReader, cache *CacheService, metrics *MetricsService, defaults EngineDefaults, logger *zap.Logger) *AttainmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttainmentService{
		courses:    courses,
		tests:      tests,
		marks:      marks,
		thresholds: thresholds,
		matrices:   matrices,
		cache:      cache,
		metrics:    metrics,
		defaults:   defaults,
		logger:     logger,
	}
}

// Compute produces the full attainment report for a course. The boolean
// indicates whether the report originated from cache.
func (s *AttainmentService) Compute(ctx context.Context, courseID string) (*attainment.Report, bool, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	cacheKey := attainmentCacheKey(courseID)
	var cached attainment.Report
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, fmt.Errorf("get attainment cache: %w", err)
		} else if hit {
			return &cached, true, nil
		}
	}

	input, err := s.loadInput(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	report, err := attainment.Compute(*input)
	if err != nil {
		return nil, false, appErrors.FromError(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveCompute(time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, 0); err != nil {
			s.logger.Warn("cache attainment report", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	return report, false, nil
}

// Invalidate drops any cached report for the course. Callers invoke this after
// marks, thresholds, or matrix writes.
func (s *AttainmentService) Invalidate(ctx context.Context, courseID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, attainmentCacheKey(courseID)); err != nil {
		s.logger.Warn("invalidate attainment cache", zap.String("course_id", courseID), zap.Error(err))
	}
}

func (s *AttainmentService) loadInput(ctx context.Context, courseID string) (*attainment.Input, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	start := time.Now()
	roster, err := s.courses.ListRoster(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	tests, err := s.tests.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load tests: %w", err)
	}
	questions, err := s.tests.ListQuestionsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	marks, err := s.marks.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load marks: %w", err)
	}
	coMarks, err := s.marks.ListCOMarks(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load imported co marks: %w", err)
	}
	cfg, err := s.thresholds.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load thresholds: %w", err)
	}
	matrix, err := s.matrices.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("attainment_input", time.Since(start))
	}

	if cfg == nil {
		cfg = &models.ThresholdConfig{CourseID: courseID}
	}
	if cfg.COThreshold <= 0 {
		cfg.COThreshold = s.defaults.COThreshold
	}
	if cfg.PassingThreshold <= 0 {
		cfg.PassingThreshold = s.defaults.PassingThreshold
	}
	if len(cfg.Thresholds) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no attainment thresholds configured for course")
	}

	return &attainment.Input{
		CourseID:        courseID,
		Roster:          roster,
		Tests:           tests,
		QuestionsByTest: questions,
		Marks:           marks,
		COMarks:         coMarks,
		Config:          *cfg,
		Matrix:          matrix,
	}, nil
}

func attainmentCacheKey(courseID string) string {
	return "attainment:report:" + courseID
}
