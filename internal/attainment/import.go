package attainment

import (
	"strconv"
	"strings"

	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

// ImportResult summarises a tabular merge. SkippedRows holds 1-based data
// row numbers (the header is row 0) so callers can surface partial success.
type ImportResult struct {
	Updated     int   `json:"updated_count"`
	SkippedRows []int `json:"skipped_rows"`
}

// DetectDelimiter picks tab over comma when the header line contains one.
func DetectDelimiter(text string) rune {
	header := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		header = text[:idx]
	}
	if strings.ContainsRune(header, '\t') {
		return '\t'
	}
	return ','
}

// MergeMatrixImport parses delimited text into correlation updates and
// applies them to a copy of the current matrix. Header tokens prefixed
// "PO"/"PSO" (case-insensitive) are recognised columns; the first column of
// each data row must name a known CO or the row is skipped. Cell values are
// clamped to [0, levels]; empty cells leave the existing value untouched.
// The source matrix is never mutated, so a caller can discard the copy on
// any later failure without partial rows leaking out.
func MergeMatrixImport(current models.CorrelationMatrix, text string, delimiter rune, levels int) (models.CorrelationMatrix, ImportResult, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, ImportResult{}, appErrors.Clone(appErrors.ErrEmptyImport, "")
	}

	// column index -> PO/PSO label
	columns := make(map[int]string)
	for i, token := range splitRow(lines[0], delimiter) {
		upper := strings.ToUpper(strings.TrimSpace(token))
		if strings.HasPrefix(upper, "PO") || strings.HasPrefix(upper, "PSO") {
			columns[i] = upper
		}
	}
	if len(columns) == 0 {
		return nil, ImportResult{}, appErrors.Clone(appErrors.ErrValidation, "no PO/PSO columns recognised in header")
	}

	merged := current.Clone()
	result := ImportResult{SkippedRows: []int{}}
	knownCO := make(map[string]bool, len(models.COLabels))
	for _, co := range models.COLabels {
		knownCO[co] = true
	}

	for rowNum, line := range lines[1:] {
		fields := splitRow(line, delimiter)
		if len(fields) == 0 {
			continue
		}
		co := strings.ToUpper(strings.TrimSpace(fields[0]))
		if !knownCO[co] {
			result.SkippedRows = append(result.SkippedRows, rowNum+1)
			continue
		}
		rowTouched := false
		for idx, po := range columns {
			if idx >= len(fields) {
				continue
			}
			cell := strings.TrimSpace(fields[idx])
			if cell == "" {
				continue
			}
			value, err := strconv.Atoi(cell)
			if err != nil {
				continue
			}
			merged.Set(co, po, value, levels)
			rowTouched = true
		}
		if rowTouched {
			result.Updated++
		} else {
			result.SkippedRows = append(result.SkippedRows, rowNum+1)
		}
	}
	return merged, result, nil
}

// MergeMarksImport parses delimited text into per-student per-CO obtained
// totals. The first column is always the roll number; a name column is
// assumed when the header says so or the second field of the first data row
// is not numeric. Remaining columns map positionally to CO1..CO6; blank or
// non-numeric cells default to zero. Roll numbers absent from the roster are
// skipped, never created.
func MergeMarksImport(roster []models.CourseStudent, text string, delimiter rune) ([]models.COMarkEntry, ImportResult, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, ImportResult{}, appErrors.Clone(appErrors.ErrEmptyImport, "")
	}

	enrolled := make(map[string]bool, len(roster))
	for _, student := range roster {
		enrolled[strings.TrimSpace(student.RollNo)] = true
	}

	markStart := 1
	header := splitRow(lines[0], delimiter)
	if len(header) > 1 && strings.Contains(strings.ToLower(header[1]), "name") {
		markStart = 2
	} else {
		first := splitRow(lines[1], delimiter)
		if len(first) > 1 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(first[1]), 64); err != nil {
				markStart = 2
			}
		}
	}

	entries := make([]models.COMarkEntry, 0, len(lines)-1)
	result := ImportResult{SkippedRows: []int{}}
	for rowNum, line := range lines[1:] {
		fields := splitRow(line, delimiter)
		if len(fields) == 0 {
			continue
		}
		rollno := strings.TrimSpace(fields[0])
		if rollno == "" || !enrolled[rollno] {
			result.SkippedRows = append(result.SkippedRows, rowNum+1)
			continue
		}
		for i, co := range models.COLabels {
			col := markStart + i
			obtained := 0.0
			if col < len(fields) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 64); err == nil {
					obtained = v
				}
			}
			entries = append(entries, models.COMarkEntry{StudentRollNo: rollno, CO: co, Obtained: obtained})
		}
		result.Updated++
	}
	return entries, result, nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitRow(line string, delimiter rune) []string {
	return strings.Split(line, string(delimiter))
}
