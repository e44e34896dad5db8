package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
)

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, '\t', DetectDelimiter("CO\tPO1\tPO2\nCO1\t1\t2"))
	assert.Equal(t, ',', DetectDelimiter("CO,PO1,PO2\nCO1,1,2"))
}

func TestMergeMatrixImportScenario(t *testing.T) {
	current := models.NewCorrelationMatrix()
	current.Set("CO2", "PO2", 1, 3)
	current.Set("CO2", "PO3", 2, 3)

	text := "CO,PO1,PO3,PSO2\nCO2,2,,1\n"
	merged, result, err := MergeMatrixImport(current, text, ',', 3)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.SkippedRows)
	assert.Equal(t, 2, merged.Value("CO2", "PO1"))
	assert.Equal(t, 1, merged.Value("CO2", "PO2"), "unrecognised columns stay untouched")
	assert.Equal(t, 2, merged.Value("CO2", "PO3"), "empty cell is skipped, not zeroed")
	assert.Equal(t, 1, merged.Value("CO2", "PSO2"))
}

func TestMergeMatrixImportClampsValues(t *testing.T) {
	text := "CO,PO1,PO2\nCO1,150,-4\n"
	merged, result, err := MergeMatrixImport(models.NewCorrelationMatrix(), text, ',', 3)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 3, merged.Value("CO1", "PO1"))
	assert.Equal(t, 0, merged.Value("CO1", "PO2"))
}

func TestMergeMatrixImportSkipsUnknownCO(t *testing.T) {
	current := models.NewCorrelationMatrix()
	text := "CO,PO1\nCO9,3\nco2,2\n"
	merged, result, err := MergeMatrixImport(current, text, ',', 3)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []int{1}, result.SkippedRows)
	assert.Equal(t, 2, merged.Value("CO2", "PO1"), "CO labels match case-insensitively")
	for _, po := range models.POLabels {
		for _, co := range models.COLabels {
			assert.Equal(t, 0, current.Value(co, po), "source matrix must not be mutated")
		}
	}
}

func TestMergeMatrixImportHeaderCaseInsensitive(t *testing.T) {
	text := "outcome,po1,pSo3\nCO1,2,3\n"
	merged, result, err := MergeMatrixImport(models.NewCorrelationMatrix(), text, ',', 3)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, merged.Value("CO1", "PO1"))
	assert.Equal(t, 3, merged.Value("CO1", "PSO3"))
}

func TestMergeMatrixImportRejectsEmptyPayloads(t *testing.T) {
	_, _, err := MergeMatrixImport(models.NewCorrelationMatrix(), "", ',', 3)
	assert.Error(t, err)

	_, _, err = MergeMatrixImport(models.NewCorrelationMatrix(), "CO,PO1\n", ',', 3)
	assert.Error(t, err)

	_, _, err = MergeMatrixImport(models.NewCorrelationMatrix(), "rollno,name\nCO1,x\n", ',', 3)
	assert.Error(t, err, "header without PO/PSO columns fails before any merge")
}

func marksRoster() []models.CourseStudent {
	return []models.CourseStudent{
		{RollNo: "21CS001", Name: "Asha"},
		{RollNo: "21CS002", Name: "Binod"},
	}
}

func TestMergeMarksImportWithNameColumn(t *testing.T) {
	text := "rollno,Student Name,CO1,CO2,CO3\n21CS001,Asha,12,8,4\n21CS002,Binod,9,,x\n"
	entries, result, err := MergeMarksImport(marksRoster(), text, ',')
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.Empty(t, result.SkippedRows)
	require.Len(t, entries, 2*len(models.COLabels))

	byKey := make(map[string]float64)
	for _, e := range entries {
		byKey[e.StudentRollNo+"/"+e.CO] = e.Obtained
	}
	assert.Equal(t, 12.0, byKey["21CS001/CO1"])
	assert.Equal(t, 8.0, byKey["21CS001/CO2"])
	assert.Equal(t, 0.0, byKey["21CS001/CO6"], "missing trailing columns default to zero")
	assert.Equal(t, 0.0, byKey["21CS002/CO2"], "blank cells default to zero")
	assert.Equal(t, 0.0, byKey["21CS002/CO3"], "non-numeric cells default to zero")
}

func TestMergeMarksImportNameColumnHeuristic(t *testing.T) {
	// header gives no hint; the non-numeric second field flags a name column
	text := "rollno,col,CO1\n21CS001,Asha,7\n"
	entries, result, err := MergeMarksImport(marksRoster(), text, ',')
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 7.0, entries[0].Obtained)

	// numeric second field: marks start at column 1
	text = "rollno,CO1,CO2\n21CS001,7,5\n"
	entries, _, err = MergeMarksImport(marksRoster(), text, ',')
	require.NoError(t, err)
	assert.Equal(t, 7.0, entries[0].Obtained)
	assert.Equal(t, 5.0, entries[1].Obtained)
}

func TestMergeMarksImportSkipsUnknownRollNos(t *testing.T) {
	text := "rollno,CO1\n21CS001,7\n99XX999,3\n"
	entries, result, err := MergeMarksImport(marksRoster(), text, ',')
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []int{2}, result.SkippedRows)
	for _, e := range entries {
		assert.Equal(t, "21CS001", e.StudentRollNo)
	}
}
