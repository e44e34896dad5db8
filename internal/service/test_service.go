package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

type testRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Test, error)
	ListQuestionsByCourse(ctx context.Context, courseID string) (map[string][]models.Question, error)
	CreateWithQuestions(ctx context.Context, test *models.Test, questions []models.Question) error
}

// QuestionRequest declares one question of a test scheme.
type QuestionRequest struct {
	Number      int     `json:"number" validate:"required,gt=0"`
	SubQuestion string  `json:"sub_question"`
	CO          int     `json:"co" validate:"required,gte=1,lte=6"`
	MaxMarks    float64 `json:"max_marks" validate:"required,gt=0"`
	IsOptional  bool    `json:"is_optional"`
}

// CreateTestRequest registers a test together with its question scheme.
type CreateTestRequest struct {
	Name      string            `json:"name" validate:"required"`
	FullMarks float64           `json:"full_marks" validate:"required,gt=0"`
	PassMarks float64           `json:"pass_marks" validate:"gte=0"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// TestWithQuestions pairs a test with its question scheme for list responses.
type TestWithQuestions struct {
	models.Test
	Questions []models.Question `json:"questions"`
}

// TestService manages tests and their question schemes.
type TestService struct {
	repo          testRepository
	cache         *CacheService
	passMarkRatio float64
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewTestService constructs a test service. passMarkRatio seeds pass marks
// for tests registered without an explicit value.
func NewTestService(repo testRepository, cache *CacheService, passMarkRatio float64, validate *validator.Validate, logger *zap.Logger) *TestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestService{repo: repo, cache: cache, passMarkRatio: passMarkRatio, validator: validate, logger: logger}
}

// List returns a course's tests with their question schemes.
func (s *TestService) List(ctx context.Context, courseID string) ([]TestWithQuestions, error) {
	tests, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tests")
	}
	questions, err := s.repo.ListQuestionsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	out := make([]TestWithQuestions, 0, len(tests))
	for _, test := range tests {
		out = append(out, TestWithQuestions{Test: test, Questions: questions[test.ID]})
	}
	return out, nil
}

// Create validates and registers a test with its question scheme. The scheme
// must account for the full marks exactly, counting optional questions once.
func (s *TestService) Create(ctx context.Context, courseID string, req CreateTestRequest) (*TestWithQuestions, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test payload")
	}
	if err := validateScheme(req.FullMarks, req.Questions); err != nil {
		return nil, err
	}

	test := &models.Test{
		CourseID:  courseID,
		Name:      strings.TrimSpace(req.Name),
		FullMarks: req.FullMarks,
		PassMarks: req.PassMarks,
	}
	if test.PassMarks <= 0 && s.passMarkRatio > 0 {
		test.PassMarks = math.Round(req.FullMarks * s.passMarkRatio)
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, models.Question{
			Number:      q.Number,
			SubQuestion: strings.ToLower(strings.TrimSpace(q.SubQuestion)),
			CO:          q.CO,
			MaxMarks:    q.MaxMarks,
			IsOptional:  q.IsOptional,
		})
	}

	if err := s.repo.CreateWithQuestions(ctx, test, questions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create test")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, attainmentCacheKey(courseID)); err != nil {
			s.logger.Warn("invalidate report cache", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	return &TestWithQuestions{Test: *test, Questions: questions}, nil
}

func validateScheme(fullMarks float64, questions []QuestionRequest) error {
	seen := make(map[string]struct{}, len(questions))
	total := 0.0
	for _, q := range questions {
		sub := strings.ToLower(strings.TrimSpace(q.SubQuestion))
		if len(sub) > 1 || (sub != "" && (sub[0] < 'a' || sub[0] > 'h')) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("sub-question %q of question %d must be a letter a..h", q.SubQuestion, q.Number))
		}
		if !isHalfMarkMultiple(q.MaxMarks) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question %d%s max marks %.2f must be a positive multiple of 0.5", q.Number, sub, q.MaxMarks))
		}
		key := fmt.Sprintf("%d%s", q.Number, sub)
		if _, dup := seen[key]; dup {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate question %s", key))
		}
		seen[key] = struct{}{}
		total += q.MaxMarks
	}
	if math.Abs(total-fullMarks) > 1e-9 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("question marks sum to %.2f, expected %.2f", total, fullMarks))
	}
	return nil
}

func isHalfMarkMultiple(marks float64) bool {
	if marks <= 0 {
		return false
	}
	doubled := marks * 2
	return math.Abs(doubled-math.Round(doubled)) <= 1e-9
}
