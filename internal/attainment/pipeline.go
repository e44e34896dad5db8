package attainment

import (
	"time"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// Input carries everything one computation pass consumes. The engine holds
// no state of its own, so recomputing with identical inputs yields an
// identical report.
type Input struct {
	CourseID        string
	Roster          []models.CourseStudent
	Tests           []models.Test
	QuestionsByTest map[string][]models.Question
	Marks           []models.RawMark
	COMarks         []models.COMarkEntry
	Config          models.ThresholdConfig
	Matrix          models.CorrelationMatrix
}

// Report is the full computed attainment structure for a course.
type Report struct {
	CourseID    string             `json:"course_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Levels      int                `json:"levels"`
	Bands       []Band             `json:"bands"`
	COMax       map[string]float64 `json:"co_max"`
	Students    []StudentCOSummary `json:"students"`
	Cohort      []CohortCOStat     `json:"cohort"`
	Outcomes    []POScore          `json:"outcomes"`
}

// Compute runs the whole pipeline: aggregate, classify, propagate. The only
// failure mode is an invalid threshold ladder.
func Compute(in Input) (*Report, error) {
	ladder, err := NewLadder(in.Config.Thresholds)
	if err != nil {
		return nil, err
	}

	students, coMax := AggregateStudents(in.Roster, in.Tests, in.QuestionsByTest, in.Marks)
	ApplyCOMarkImports(students, coMax, in.COMarks)
	cohort := CohortStats(students, coMax, ladder, in.Config.COThreshold, in.Config.PassingThreshold)
	outcomes := PropagateOutcomes(cohort, in.Matrix, ladder.Levels())

	return &Report{
		CourseID:    in.CourseID,
		GeneratedAt: time.Now().UTC(),
		Levels:      ladder.Levels(),
		Bands:       ladder.Bands(),
		COMax:       coMax,
		Students:    students,
		Cohort:      cohort,
		Outcomes:    outcomes,
	}, nil
}
