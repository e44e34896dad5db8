package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	reports := newAttainmentServiceForTest(nil)
	svc := NewExportService(reports, store, signer, cfg, zap.NewNop(), nil, nil, nil)
	return svc, dir
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, dir := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "c1", ReportFormatCSV)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/export/")

	info, err := os.Stat(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, dir := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "c1", ReportFormatPDF)
	require.NoError(t, err)
	require.Equal(t, ReportFormatPDF, result.Format)

	info, err := os.Stat(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateXLSX(t *testing.T) {
	svc, dir := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "c1", ReportFormatXLSX)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Generate(context.Background(), "c1", ReportFormat("docx"))
	require.Error(t, err)
}

func TestExportServiceTokenRoundTrip(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "c1", ReportFormatCSV)
	require.NoError(t, err)

	courseID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, "c1", courseID)
	require.Equal(t, result.RelativePath, relPath)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func TestExportServiceCleanup(t *testing.T) {
	svc, dir := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), "c1", ReportFormatCSV)
	require.NoError(t, err)

	path := filepath.Join(dir, result.RelativePath)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	deleted, err := svc.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	require.Contains(t, deleted, result.RelativePath)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
