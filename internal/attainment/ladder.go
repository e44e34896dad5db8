package attainment

import (
	"sort"

	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

// Ladder is a validated, descending-sorted set of percentage cut points.
// The highest threshold owns the maximum level len(thresholds); percentages
// below the lowest threshold classify as level 0. Construct once per
// computation pass and reuse; classification is read-only.
type Ladder struct {
	thresholds []models.AttainmentThreshold
}

// NewLadder validates the thresholds (at least one entry, pairwise distinct
// percentages, each within [0,100]) and returns a ladder sorted descending.
func NewLadder(thresholds []models.AttainmentThreshold) (*Ladder, error) {
	if len(thresholds) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidThresholds, "at least one attainment threshold required")
	}
	seen := make(map[float64]bool, len(thresholds))
	sorted := make([]models.AttainmentThreshold, len(thresholds))
	copy(sorted, thresholds)
	for _, t := range sorted {
		if t.Percentage < 0 || t.Percentage > 100 {
			return nil, appErrors.Clone(appErrors.ErrInvalidThresholds, "threshold percentage must be within [0,100]")
		}
		if seen[t.Percentage] {
			return nil, appErrors.Clone(appErrors.ErrInvalidThresholds, "threshold percentages must be distinct")
		}
		seen[t.Percentage] = true
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Percentage > sorted[j].Percentage
	})
	return &Ladder{thresholds: sorted}, nil
}

// Levels returns the maximum attainment level.
func (l *Ladder) Levels() int {
	return len(l.thresholds)
}

// Classify maps a percentage to a discrete level. A percentage exactly on a
// cut point belongs to the higher band.
func (l *Ladder) Classify(percentage float64) int {
	for i, t := range l.thresholds {
		if percentage >= t.Percentage {
			return len(l.thresholds) - i
		}
	}
	return 0
}

// Band is one contiguous percentage range of the criteria table. Upper is
// nil for the top band.
type Band struct {
	Level int      `json:"level"`
	Lower float64  `json:"lower"`
	Upper *float64 `json:"upper,omitempty"`
}

// Bands returns the criteria bands from level 0 upwards, including the
// implicit [0, lowest) band.
func (l *Ladder) Bands() []Band {
	bands := make([]Band, 0, len(l.thresholds)+1)
	lowest := l.thresholds[len(l.thresholds)-1].Percentage
	bands = append(bands, Band{Level: 0, Lower: 0, Upper: &lowest})
	for i := len(l.thresholds) - 1; i >= 0; i-- {
		band := Band{Level: len(l.thresholds) - i, Lower: l.thresholds[i].Percentage}
		if i > 0 {
			upper := l.thresholds[i-1].Percentage
			band.Upper = &upper
		}
		bands = append(bands, band)
	}
	return bands
}
