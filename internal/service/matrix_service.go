package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/internal/attainment"
	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

type matrixRepository interface {
	FindByCourse(ctx context.Context, courseID string) (models.CorrelationMatrix, error)
	Save(ctx context.Context, courseID string, matrix models.CorrelationMatrix) error
}

type ladderReader interface {
	FindByCourse(ctx context.Context, courseID string) (*models.ThresholdConfig, error)
}

// UpdateCellRequest sets a single correlation cell in the working copy.
type UpdateCellRequest struct {
	CO    string `json:"co" validate:"required"`
	PO    string `json:"po" validate:"required"`
	Value int    `json:"value"`
}

// MatrixState is a correlation matrix together with its edit status.
type MatrixState struct {
	CourseID string                   `json:"course_id"`
	Matrix   models.CorrelationMatrix `json:"matrix"`
	Dirty    bool                     `json:"dirty"`
}

// MatrixService manages CO/PO correlation matrices. Edits accumulate in an
// in-memory working copy per course and only reach storage on Commit, so a
// half-finished editing session never leaks into reports.
type MatrixService struct {
	repo       matrixRepository
	thresholds ladderReader
	cache      *CacheService
	logger     *zap.Logger

	mu     sync.Mutex
	drafts map[string]models.CorrelationMatrix
}

// NewMatrixService constructs a matrix service.
func NewMatrixService(repo matrixRepository, thresholds ladderReader, cache *CacheService, logger *zap.Logger) *MatrixService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatrixService{
		repo:       repo,
		thresholds: thresholds,
		cache:      cache,
		logger:     logger,
		drafts:     make(map[string]models.CorrelationMatrix),
	}
}

// Get returns the working copy when one exists, otherwise the stored matrix.
func (s *MatrixService) Get(ctx context.Context, courseID string) (*MatrixState, error) {
	s.mu.Lock()
	draft, ok := s.drafts[courseID]
	s.mu.Unlock()
	if ok {
		return &MatrixState{CourseID: courseID, Matrix: draft.Clone(), Dirty: true}, nil
	}
	stored, err := s.repo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load matrix")
	}
	return &MatrixState{CourseID: courseID, Matrix: stored, Dirty: false}, nil
}

// UpdateCell sets one cell of the working copy, clamping the value into the
// valid correlation range.
func (s *MatrixService) UpdateCell(ctx context.Context, courseID string, req UpdateCellRequest) (*MatrixState, error) {
	co := strings.ToUpper(strings.TrimSpace(req.CO))
	po := strings.ToUpper(strings.TrimSpace(req.PO))
	if !knownCO(co) || !knownPO(po) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown CO or PO label")
	}
	draft, err := s.draftFor(ctx, courseID)
	if err != nil {
		return nil, err
	}
	levels := s.levelsFor(ctx, courseID)
	s.mu.Lock()
	draft.Set(co, po, req.Value, levels)
	state := &MatrixState{CourseID: courseID, Matrix: draft.Clone(), Dirty: true}
	s.mu.Unlock()
	return state, nil
}

// Import merges delimiter-separated matrix rows into the working copy.
// Unparseable rows are skipped and reported, never fatal.
func (s *MatrixService) Import(ctx context.Context, courseID string, payload string, delimiter rune) (*MatrixState, *attainment.ImportResult, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrEmptyImport, "import payload is empty")
	}
	if delimiter == 0 {
		delimiter = attainment.DetectDelimiter(payload)
	}
	draft, err := s.draftFor(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	levels := s.levelsFor(ctx, courseID)
	s.mu.Lock()
	defer s.mu.Unlock()
	merged, result, err := attainment.MergeMatrixImport(draft, payload, delimiter, levels)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	s.drafts[courseID] = merged
	return &MatrixState{CourseID: courseID, Matrix: merged.Clone(), Dirty: true}, &result, nil
}

// Commit persists the working copy and drops it. Committing without pending
// edits is a no-op.
func (s *MatrixService) Commit(ctx context.Context, courseID string) (*MatrixState, error) {
	s.mu.Lock()
	draft, ok := s.drafts[courseID]
	s.mu.Unlock()
	if !ok {
		return s.Get(ctx, courseID)
	}
	if err := s.repo.Save(ctx, courseID, draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save matrix")
	}
	s.mu.Lock()
	delete(s.drafts, courseID)
	s.mu.Unlock()
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, attainmentCacheKey(courseID)); err != nil {
			s.logger.Warn("invalidate report cache", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	return &MatrixState{CourseID: courseID, Matrix: draft.Clone(), Dirty: false}, nil
}

// Discard drops any pending edits for the course.
func (s *MatrixService) Discard(courseID string) {
	s.mu.Lock()
	delete(s.drafts, courseID)
	s.mu.Unlock()
}

// levelsFor returns the upper bound for correlation strengths, which tracks
// the depth of the course's threshold ladder. Courses without a configured
// ladder use the default depth.
func (s *MatrixService) levelsFor(ctx context.Context, courseID string) int {
	if s.thresholds == nil {
		return models.CorrelationLevels
	}
	cfg, err := s.thresholds.FindByCourse(ctx, courseID)
	if err != nil || cfg == nil || len(cfg.Thresholds) == 0 {
		return models.CorrelationLevels
	}
	return len(cfg.Thresholds)
}

// draftFor returns the working copy, seeding it from storage on first edit.
func (s *MatrixService) draftFor(ctx context.Context, courseID string) (models.CorrelationMatrix, error) {
	s.mu.Lock()
	draft, ok := s.drafts[courseID]
	s.mu.Unlock()
	if ok {
		return draft, nil
	}
	stored, err := s.repo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load matrix")
	}
	s.mu.Lock()
	if existing, ok := s.drafts[courseID]; ok {
		stored = existing
	} else {
		s.drafts[courseID] = stored
	}
	s.mu.Unlock()
	return stored, nil
}

func knownCO(label string) bool {
	for _, co := range models.COLabels {
		if co == label {
			return true
		}
	}
	return false
}

func knownPO(label string) bool {
	for _, po := range models.POLabels {
		if po == label {
			return true
		}
	}
	return false
}
