package attainment

import "github.com/noah-isme/obe-attainment-api/internal/models"

// POScore is the weighted attainment score for one PO/PSO. The score is
// continuous in [0, levels]; Contributors counts the COs that were assessed
// and correlated with strength greater than zero. A PO with no contributor
// scores zero; POs are unmapped, never unassessed.
type POScore struct {
	PO           string  `json:"po"`
	Score        float64 `json:"score"`
	Contributors int     `json:"contributors"`
}

// PropagateOutcomes averages CO attainment levels into PO/PSO scores,
// weighted by correlation strength over the maximum strength. Unassessed COs
// and zero-correlation cells are excluded from both numerator and denominator.
func PropagateOutcomes(stats []CohortCOStat, matrix models.CorrelationMatrix, levels int) []POScore {
	scores := make([]POScore, 0, len(models.POLabels))
	for _, po := range models.POLabels {
		score := POScore{PO: po}
		sum := 0.0
		for _, stat := range stats {
			if !stat.Assessed || stat.Level == nil {
				continue
			}
			correlation := matrix.Value(stat.CO, po)
			if correlation <= 0 {
				continue
			}
			sum += float64(*stat.Level) * float64(correlation) / float64(levels)
			score.Contributors++
		}
		if score.Contributors > 0 {
			score.Score = sum / float64(score.Contributors)
		}
		scores = append(scores, score)
	}
	return scores
}
