package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func levelPtr(l int) *int {
	return &l
}

func cohortFixture() []CohortCOStat {
	return []CohortCOStat{
		{CO: "CO1", Assessed: true, Level: levelPtr(3)},
		{CO: "CO2", Assessed: true, Level: levelPtr(2)},
		{CO: "CO3", Assessed: true, Level: levelPtr(1)},
		{CO: "CO4", Assessed: true, Level: levelPtr(0)},
		{CO: "CO5"}, // unassessed
		{CO: "CO6", Assessed: true, Level: levelPtr(3)},
	}
}

func TestPropagateOutcomesWeightedAverage(t *testing.T) {
	matrix := models.NewCorrelationMatrix()
	matrix.Set("CO1", "PO1", 3, 3)
	matrix.Set("CO2", "PO1", 2, 3)

	scores := PropagateOutcomes(cohortFixture(), matrix, 3)
	var po1 POScore
	for _, s := range scores {
		if s.PO == "PO1" {
			po1 = s
		}
	}
	require.Equal(t, 2, po1.Contributors)
	// (3*3/3 + 2*2/3) / 2
	assert.InDelta(t, (3.0+4.0/3.0)/2, po1.Score, 1e-9)
	assert.GreaterOrEqual(t, po1.Score, 0.0)
	assert.LessOrEqual(t, po1.Score, 3.0)
}

func TestPropagateOutcomesAllZeroRow(t *testing.T) {
	matrix := models.NewCorrelationMatrix()
	scores := PropagateOutcomes(cohortFixture(), matrix, 3)
	for _, s := range scores {
		assert.Equal(t, 0.0, s.Score)
		assert.Zero(t, s.Contributors)
	}
}

func TestPropagateOutcomesSkipsUnassessedCO(t *testing.T) {
	matrix := models.NewCorrelationMatrix()
	matrix.Set("CO5", "PO3", 3, 3)

	scores := PropagateOutcomes(cohortFixture(), matrix, 3)
	var po3 POScore
	for _, s := range scores {
		if s.PO == "PO3" {
			po3 = s
		}
	}
	assert.Equal(t, 0.0, po3.Score, "unassessed CO must not contribute even when correlated")
	assert.Zero(t, po3.Contributors)
}

func TestPropagateOutcomesLevelZeroStillContributes(t *testing.T) {
	// An assessed CO at level 0 counts in the denominator; zero correlation
	// does not.
	matrix := models.NewCorrelationMatrix()
	matrix.Set("CO4", "PO2", 2, 3)
	matrix.Set("CO1", "PO2", 1, 3)

	scores := PropagateOutcomes(cohortFixture(), matrix, 3)
	var po2 POScore
	for _, s := range scores {
		if s.PO == "PO2" {
			po2 = s
		}
	}
	require.Equal(t, 2, po2.Contributors)
	assert.InDelta(t, (0.0+3.0*1.0/3.0)/2, po2.Score, 1e-9)
}

func TestPropagateOutcomesCoversPSOs(t *testing.T) {
	matrix := models.NewCorrelationMatrix()
	matrix.Set("CO6", "PSO2", 3, 3)

	scores := PropagateOutcomes(cohortFixture(), matrix, 3)
	found := false
	for _, s := range scores {
		if s.PO == "PSO2" {
			found = true
			assert.InDelta(t, 3.0, s.Score, 1e-9)
		}
	}
	assert.True(t, found)
	assert.Len(t, scores, len(models.POLabels))
}
