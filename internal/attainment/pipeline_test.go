package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func pipelineInput() Input {
	roster, tests, questions := sampleCourse()
	matrix := models.NewCorrelationMatrix()
	matrix.Set("CO1", "PO1", 3, 3)
	matrix.Set("CO5", "PO3", 3, 3) // CO5 never assessed
	return Input{
		CourseID:        "c1",
		Roster:          roster,
		Tests:           tests,
		QuestionsByTest: questions,
		Marks: []models.RawMark{
			{StudentRollNo: "21CS001", TestID: "t1", QuestionKey: "1", MarksObtained: 9},
			{StudentRollNo: "21CS001", TestID: "t2", QuestionKey: "1", MarksObtained: 8},
			{StudentRollNo: "21CS002", TestID: "t1", QuestionKey: "1", MarksObtained: 7},
			{StudentRollNo: "21CS002", TestID: "t2", QuestionKey: "1", MarksObtained: 7},
		},
		Config: models.ThresholdConfig{
			CourseID:         "c1",
			COThreshold:      60,
			PassingThreshold: 40,
			Thresholds:       thresholds(70, 60, 50),
		},
		Matrix: matrix,
	}
}

func TestComputeFullPipeline(t *testing.T) {
	report, err := Compute(pipelineInput())
	require.NoError(t, err)

	assert.Equal(t, "c1", report.CourseID)
	assert.Equal(t, 3, report.Levels)
	assert.Len(t, report.Bands, 4)
	assert.Len(t, report.Students, 3)
	assert.Len(t, report.Cohort, len(models.COLabels))
	assert.Len(t, report.Outcomes, len(models.POLabels))

	// both present students cleared CO1 at 85% and 70%
	co1 := report.Cohort[0]
	assert.Equal(t, 2, co1.PresentCount)
	assert.Equal(t, 2, co1.AboveCOThreshold)
	require.NotNil(t, co1.Level)
	assert.Equal(t, 3, *co1.Level)

	var po1, po3 POScore
	for _, s := range report.Outcomes {
		switch s.PO {
		case "PO1":
			po1 = s
		case "PO3":
			po3 = s
		}
	}
	assert.InDelta(t, 3.0, po1.Score, 1e-9)
	assert.Equal(t, 0.0, po3.Score, "correlation to an unassessed CO is ignored")
}

func TestComputeIdempotent(t *testing.T) {
	in := pipelineInput()
	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	first.GeneratedAt = second.GeneratedAt
	assert.Equal(t, first, second)
}

func TestComputeInvalidLadder(t *testing.T) {
	in := pipelineInput()
	in.Config.Thresholds = nil
	_, err := Compute(in)
	assert.Error(t, err)
}

func TestComputeUnassessedCOPropagatesNA(t *testing.T) {
	report, err := Compute(pipelineInput())
	require.NoError(t, err)

	for _, s := range report.Students {
		assert.False(t, s.Percentage["CO5"].IsAssessed())
	}
	for _, c := range report.Cohort {
		if c.CO == "CO5" {
			assert.False(t, c.Assessed)
			assert.Nil(t, c.Level)
		}
	}
}
