package attainment

import "github.com/noah-isme/obe-attainment-api/internal/models"

// CohortCOStat is the cohort-level figure for one CO. AttainmentPct and the
// ladder Level form the N-point scale driven by the CO threshold;
// AbsolutePct is the independent passing-threshold scale. Both share the
// same present/absent partition. Unassessed COs carry the NA sentinel in
// every derived field.
type CohortCOStat struct {
	CO                    string `json:"co"`
	Assessed              bool   `json:"assessed"`
	PresentCount          int    `json:"present_count"`
	AbsentCount           int    `json:"absent_count"`
	AboveCOThreshold      int    `json:"above_co_threshold"`
	AbovePassingThreshold int    `json:"above_passing_threshold"`
	AttainmentPct         Metric `json:"attainment_pct"`
	AbsolutePct           Metric `json:"absolute_pct"`
	Level                 *int   `json:"level"`
}

// CohortStats computes per-CO cohort counts over present students only.
// With no present students the cleared percentages are a defined zero, not a
// division error.
func CohortStats(
	students []StudentCOSummary,
	coMax map[string]float64,
	ladder *Ladder,
	coThreshold, passingThreshold float64,
) []CohortCOStat {
	present := 0
	absent := 0
	for _, s := range students {
		if s.Absent {
			absent++
		} else {
			present++
		}
	}

	stats := make([]CohortCOStat, 0, len(models.COLabels))
	for _, co := range models.COLabels {
		stat := CohortCOStat{CO: co, PresentCount: present, AbsentCount: absent}
		if coMax[co] <= 0 {
			stat.AttainmentPct = Unassessed()
			stat.AbsolutePct = Unassessed()
			stats = append(stats, stat)
			continue
		}
		stat.Assessed = true
		for _, s := range students {
			if s.Absent {
				continue
			}
			pct, ok := s.Percentage[co].Value()
			if !ok {
				continue
			}
			if pct >= coThreshold {
				stat.AboveCOThreshold++
			}
			if pct >= passingThreshold {
				stat.AbovePassingThreshold++
			}
		}
		attainmentPct := 0.0
		absolutePct := 0.0
		if present > 0 {
			attainmentPct = 100 * float64(stat.AboveCOThreshold) / float64(present)
			absolutePct = 100 * float64(stat.AbovePassingThreshold) / float64(present)
		}
		stat.AttainmentPct = Assessed(attainmentPct)
		stat.AbsolutePct = Assessed(absolutePct)
		level := ladder.Classify(attainmentPct)
		stat.Level = &level
		stats = append(stats, stat)
	}
	return stats
}
