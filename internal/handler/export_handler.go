package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/obe-attainment-api/internal/service"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/response"
)

// ExportHandler renders attainment reports into downloadable files.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the export handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Generate godoc
// @Summary Generate a downloadable attainment report
// @Tags Exports
// @Produce json
// @Param id path string true "Course ID"
// @Param format query string true "Export format" Enums(csv, pdf, xlsx)
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/export [post]
func (h *ExportHandler) Generate(c *gin.Context) {
	format := service.ReportFormat(strings.ToLower(c.Query("format")))
	if format == "" {
		format = service.ReportFormatCSV
	}
	result, err := h.exports.Generate(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download a generated report via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if strings.TrimSpace(token) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	_, relPath, _, err := h.exports.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid or expired token"))
		return
	}
	file, err := h.exports.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file not found"))
		return
	}
	defer file.Close() //nolint:errcheck
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filepath.Base(relPath)))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType(relPath), file, nil)
}

func contentType(relPath string) string {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
