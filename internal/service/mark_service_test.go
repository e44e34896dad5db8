package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
)

type rosterReaderStub struct {
	roster []models.CourseStudent
}

func (s *rosterReaderStub) ListRoster(ctx context.Context, courseID string) ([]models.CourseStudent, error) {
	return s.roster, nil
}

type coMarkWriterStub struct {
	courseID string
	entries  []models.COMarkEntry
}

func (s *coMarkWriterStub) BulkUpsertCOMarks(ctx context.Context, courseID string, entries []models.COMarkEntry) error {
	s.courseID = courseID
	s.entries = entries
	return nil
}

func TestMarkServiceImport(t *testing.T) {
	roster := &rosterReaderStub{roster: []models.CourseStudent{
		{RollNo: "19CS001", Name: "Asha"},
		{RollNo: "19CS002", Name: "Binod"},
	}}
	writer := &coMarkWriterStub{}
	svc := NewMarkService(roster, writer, nil, nil)

	payload := "RollNo,Name,CO1,CO2,CO3,CO4,CO5,CO6\n" +
		"19CS001,Asha,12,8,,5,0,3\n" +
		"19CS002,Binod,10,7,4,,2,1\n" +
		"19CS099,Ghost,9,9,9,9,9,9\n"

	result, err := svc.Import(context.Background(), "c1", payload, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, []int{3}, result.SkippedRows)

	assert.Equal(t, "c1", writer.courseID)
	require.Len(t, writer.entries, 12)
	assert.Equal(t, models.COMarkEntry{StudentRollNo: "19CS001", CO: "CO1", Obtained: 12}, writer.entries[0])
	// blank cells come through as zero
	assert.Equal(t, 0.0, writer.entries[2].Obtained)
}

func TestMarkServiceImportWithoutNameColumn(t *testing.T) {
	roster := &rosterReaderStub{roster: []models.CourseStudent{{RollNo: "19CS001", Name: "Asha"}}}
	writer := &coMarkWriterStub{}
	svc := NewMarkService(roster, writer, nil, nil)

	// mark columns start right after the roll number when the second field is numeric
	payload := "RollNo\tCO1\tCO2\tCO3\tCO4\tCO5\tCO6\n19CS001\t12\t8\t6\t5\t0\t3\n"
	result, err := svc.Import(context.Background(), "c1", payload, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	require.NotEmpty(t, writer.entries)
	assert.Equal(t, 12.0, writer.entries[0].Obtained)
}

func TestMarkServiceImportEmptyPayload(t *testing.T) {
	svc := NewMarkService(&rosterReaderStub{}, &coMarkWriterStub{}, nil, nil)

	_, err := svc.Import(context.Background(), "c1", "", 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyImport.Code, appErrors.FromError(err).Code)
}
