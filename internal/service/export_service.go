package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/obe-attainment-api/internal/attainment"
	"github.com/noah-isme/obe-attainment-api/internal/models"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/export"
	"github.com/noah-isme/obe-attainment-api/pkg/storage"
)

// ReportFormat selects the export file type.
type ReportFormat string

// Supported export formats.
const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatXLSX ReportFormat = "xlsx"
)

type reportComputer interface {
	Compute(ctx context.Context, courseID string) (*attainment.Report, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(sheets []export.Sheet) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string       `json:"relative_path"`
	Token        string       `json:"token"`
	URL          string       `json:"url"`
	Format       ReportFormat `json:"format"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// ExportService renders attainment reports into downloadable files.
type ExportService struct {
	reports reportComputer
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    xlsxRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportComputer, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{
		reports: reports,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		xlsx:    xlsx,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate computes the course report and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, courseID string, format ReportFormat) (*ExportResult, error) {
	report, _, err := s.reports.Compute(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var payload []byte
	title := fmt.Sprintf("Attainment Report %s", courseID)
	switch format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(cohortDataset(report))
	case ReportFormatPDF:
		payload, err = s.pdf.Render(cohortDataset(report), title)
	case ReportFormatXLSX:
		payload, err = s.xlsx.Render([]export.Sheet{
			{Name: "Cohort", Dataset: cohortDataset(report)},
			{Name: "Students", Dataset: studentDataset(report)},
			{Name: "Outcomes", Dataset: outcomeDataset(report)},
		})
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	filename := s.buildFilename(courseID, format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(courseID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign export url: %w", err)
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (courseID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(courseID string, format ReportFormat) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("attainment_%s_%s.%s", sanitizeFilename(courseID), timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func cohortDataset(report *attainment.Report) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Cohort))
	for _, stat := range report.Cohort {
		rows = append(rows, map[string]string{
			"CO":              stat.CO,
			"Present":         fmt.Sprintf("%d", stat.PresentCount),
			"Absent":          fmt.Sprintf("%d", stat.AbsentCount),
			"Above Threshold": fmt.Sprintf("%d", stat.AboveCOThreshold),
			"Passed":          fmt.Sprintf("%d", stat.AbovePassingThreshold),
			"Attainment (%)":  stat.AttainmentPct.String(),
			"Absolute (%)":    stat.AbsolutePct.String(),
			"Level":           formatLevel(stat.Level),
		})
	}
	return export.Dataset{
		Headers: []string{"CO", "Present", "Absent", "Above Threshold", "Passed", "Attainment (%)", "Absolute (%)", "Level"},
		Rows:    rows,
	}
}

func studentDataset(report *attainment.Report) export.Dataset {
	headers := []string{"Roll No", "Name", "Status"}
	headers = append(headers, models.COLabels...)
	rows := make([]map[string]string, 0, len(report.Students))
	for _, student := range report.Students {
		row := map[string]string{
			"Roll No": student.RollNo,
			"Name":    student.Name,
			"Status":  studentStatus(student.Absent),
		}
		for _, co := range models.COLabels {
			row[co] = student.Percentage[co].String()
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func outcomeDataset(report *attainment.Report) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		rows = append(rows, map[string]string{
			"Outcome":      outcome.PO,
			"Score":        fmt.Sprintf("%.2f", outcome.Score),
			"Contributors": fmt.Sprintf("%d", outcome.Contributors),
		})
	}
	return export.Dataset{
		Headers: []string{"Outcome", "Score", "Contributors"},
		Rows:    rows,
	}
}

func formatLevel(level *int) string {
	if level == nil {
		return "NA"
	}
	return fmt.Sprintf("%d", *level)
}

func studentStatus(absent bool) string {
	if absent {
		return "Absent"
	}
	return "Present"
}
