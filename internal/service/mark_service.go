package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/internal/attainment"
	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

type rosterReader interface {
	ListRoster(ctx context.Context, courseID string) ([]models.CourseStudent, error)
}

type coMarkWriter interface {
	BulkUpsertCOMarks(ctx context.Context, courseID string, entries []models.COMarkEntry) error
}

// MarkService ingests bulk CO mark sheets pasted or uploaded by course staff.
type MarkService struct {
	courses rosterReader
	marks   coMarkWriter
	cache   *CacheService
	logger  *zap.Logger
}

// NewMarkService constructs a mark service.
func NewMarkService(courses rosterReader, marks coMarkWriter, cache *CacheService, logger *zap.Logger) *MarkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkService{courses: courses, marks: marks, cache: cache, logger: logger}
}

// Import parses a delimiter-separated mark sheet against the course roster
// and overwrites stored CO totals for the students it names. Rows for unknown
// roll numbers are skipped and reported.
func (s *MarkService) Import(ctx context.Context, courseID string, payload string, delimiter rune) (*attainment.ImportResult, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, appErrors.Clone(appErrors.ErrEmptyImport, "import payload is empty")
	}
	if delimiter == 0 {
		delimiter = attainment.DetectDelimiter(payload)
	}

	roster, err := s.courses.ListRoster(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	entries, result, err := attainment.MergeMarksImport(roster, payload, delimiter)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if err := s.marks.BulkUpsertCOMarks(ctx, courseID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store imported marks")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, attainmentCacheKey(courseID)); err != nil {
			s.logger.Warn("invalidate report cache", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	s.logger.Info("marks imported",
		zap.String("course_id", courseID),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(result.SkippedRows)))
	return &result, nil
}
