package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/obe-attainment-api/internal/service"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/response"
)

// MarkHandler ingests bulk mark sheets.
type MarkHandler struct {
	marks *service.MarkService
}

// NewMarkHandler constructs the mark handler.
func NewMarkHandler(marks *service.MarkService) *MarkHandler {
	return &MarkHandler{marks: marks}
}

// Import godoc
// @Summary Import CO marks from tabular text
// @Tags Marks
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body ImportRequest true "Tabular payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/marks/import [post]
func (h *MarkHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid import payload"))
		return
	}
	result, err := h.marks.Import(c.Request.Context(), c.Param("id"), req.Payload, req.delimiterRune())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
