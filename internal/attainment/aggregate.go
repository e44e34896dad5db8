package attainment

import (
	"fmt"
	"strings"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

// StudentCOSummary holds the per-student obtained totals and percentages,
// keyed by CO label. Percentage is the NA sentinel for COs the course never
// assessed.
type StudentCOSummary struct {
	RollNo     string             `json:"rollno"`
	Name       string             `json:"name"`
	Absent     bool               `json:"absent"`
	Obtained   map[string]float64 `json:"obtained"`
	Percentage map[string]Metric  `json:"percentage"`
}

// AggregateStudents reduces raw marks into per-student CO totals. The CO
// maximum is summed over every question of the course regardless of any one
// student's attempts, so it is identical across the roster; it is returned
// once rather than per student. Raw marks referencing a question identifier
// that no longer exists in the question set are dropped. A student with no
// mark row for a question contributes zero for it; absence is carried from
// the roster flag alone.
func AggregateStudents(
	roster []models.CourseStudent,
	tests []models.Test,
	questionsByTest map[string][]models.Question,
	marks []models.RawMark,
) ([]StudentCOSummary, map[string]float64) {
	coMax := make(map[string]float64, len(models.COLabels))
	for _, co := range models.COLabels {
		coMax[co] = 0
	}

	// (test, identifier) -> CO label for mark attribution.
	questionCO := make(map[string]string)
	for _, test := range tests {
		for _, q := range questionsByTest[test.ID] {
			label := coLabel(q.CO)
			if label == "" {
				continue
			}
			questionCO[markKey(test.ID, q.Identifier())] = label
			coMax[label] += q.MaxMarks
		}
	}

	obtained := make(map[string]map[string]float64, len(roster))
	for _, mark := range marks {
		label, ok := questionCO[markKey(mark.TestID, mark.QuestionKey)]
		if !ok {
			continue // stale mark, question removed
		}
		byCO := obtained[mark.StudentRollNo]
		if byCO == nil {
			byCO = make(map[string]float64, len(models.COLabels))
			obtained[mark.StudentRollNo] = byCO
		}
		byCO[label] += mark.MarksObtained
	}

	summaries := make([]StudentCOSummary, 0, len(roster))
	for _, student := range roster {
		summary := StudentCOSummary{
			RollNo:     student.RollNo,
			Name:       student.Name,
			Absent:     student.Absent(),
			Obtained:   make(map[string]float64, len(models.COLabels)),
			Percentage: make(map[string]Metric, len(models.COLabels)),
		}
		for _, co := range models.COLabels {
			got := obtained[student.RollNo][co]
			summary.Obtained[co] = got
			if coMax[co] <= 0 {
				summary.Percentage[co] = Unassessed()
				continue
			}
			summary.Percentage[co] = Assessed(100 * got / coMax[co])
		}
		summaries = append(summaries, summary)
	}
	return summaries, coMax
}

// ApplyCOMarkImports overlays bulk-imported per-student CO totals onto the
// aggregated summaries. An imported total replaces the raw-mark sum for that
// CO and the percentage is recomputed against the course maximum. Entries
// for students outside the roster are dropped, and a CO the course never
// assessed stays NA no matter what was imported.
func ApplyCOMarkImports(students []StudentCOSummary, coMax map[string]float64, entries []models.COMarkEntry) {
	if len(entries) == 0 {
		return
	}
	index := make(map[string]int, len(students))
	for i, s := range students {
		index[s.RollNo] = i
	}
	for _, entry := range entries {
		i, ok := index[strings.TrimSpace(entry.StudentRollNo)]
		if !ok {
			continue
		}
		co := strings.ToUpper(strings.TrimSpace(entry.CO))
		max, known := coMax[co]
		if !known || max <= 0 {
			continue
		}
		students[i].Obtained[co] = entry.Obtained
		students[i].Percentage[co] = Assessed(100 * entry.Obtained / max)
	}
}

func markKey(testID, identifier string) string {
	return fmt.Sprintf("%s|%s", testID, identifier)
}

func coLabel(co int) string {
	if co < 1 || co > len(models.COLabels) {
		return ""
	}
	return models.COLabels[co-1]
}
