package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func thresholds(percentages ...float64) []models.AttainmentThreshold {
	out := make([]models.AttainmentThreshold, 0, len(percentages))
	for _, p := range percentages {
		out = append(out, models.AttainmentThreshold{Percentage: p})
	}
	return out
}

func TestNewLadderValidation(t *testing.T) {
	_, err := NewLadder(nil)
	assert.Error(t, err)

	_, err = NewLadder(thresholds(70, 70))
	assert.Error(t, err)

	_, err = NewLadder(thresholds(70, 102))
	assert.Error(t, err)

	_, err = NewLadder(thresholds(70, -1))
	assert.Error(t, err)

	ladder, err := NewLadder(thresholds(50, 70, 60))
	require.NoError(t, err)
	assert.Equal(t, 3, ladder.Levels())
}

func TestLadderClassify(t *testing.T) {
	ladder, err := NewLadder(thresholds(70, 60, 50))
	require.NoError(t, err)

	assert.Equal(t, 0, ladder.Classify(49.99))
	assert.Equal(t, 1, ladder.Classify(50))
	assert.Equal(t, 1, ladder.Classify(59.5))
	assert.Equal(t, 2, ladder.Classify(60))
	assert.Equal(t, 3, ladder.Classify(70))
	assert.Equal(t, 3, ladder.Classify(100))
}

func TestLadderClassifyMonotonic(t *testing.T) {
	ladder, err := NewLadder(thresholds(80, 40, 65, 20))
	require.NoError(t, err)

	prev := -1
	for p := 0.0; p <= 100; p += 0.5 {
		level := ladder.Classify(p)
		assert.GreaterOrEqual(t, level, prev, "classification must not decrease at %.1f", p)
		prev = level
	}
	assert.Equal(t, 0, ladder.Classify(19.9))
	assert.Equal(t, ladder.Levels(), ladder.Classify(80))
}

func TestLadderBands(t *testing.T) {
	ladder, err := NewLadder(thresholds(70, 60, 50))
	require.NoError(t, err)

	bands := ladder.Bands()
	require.Len(t, bands, 4)

	assert.Equal(t, 0, bands[0].Level)
	assert.Equal(t, 0.0, bands[0].Lower)
	require.NotNil(t, bands[0].Upper)
	assert.Equal(t, 50.0, *bands[0].Upper)

	assert.Equal(t, 1, bands[1].Level)
	assert.Equal(t, 50.0, bands[1].Lower)
	require.NotNil(t, bands[1].Upper)
	assert.Equal(t, 60.0, *bands[1].Upper)

	assert.Equal(t, 3, bands[3].Level)
	assert.Equal(t, 70.0, bands[3].Lower)
	assert.Nil(t, bands[3].Upper)
}

func TestLadderSingleThreshold(t *testing.T) {
	ladder, err := NewLadder(thresholds(50))
	require.NoError(t, err)

	assert.Equal(t, 1, ladder.Levels())
	assert.Equal(t, 0, ladder.Classify(49))
	assert.Equal(t, 1, ladder.Classify(50))
	assert.Len(t, ladder.Bands(), 2)
}
