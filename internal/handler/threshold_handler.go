package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/obe-attainment-api/internal/service"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/response"
)

// ThresholdHandler manages the per-course attainment configuration endpoints.
type ThresholdHandler struct {
	thresholds *service.ThresholdService
}

// NewThresholdHandler constructs the threshold handler.
func NewThresholdHandler(thresholds *service.ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{thresholds: thresholds}
}

// Get godoc
// @Summary Course attainment thresholds
// @Tags Thresholds
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/thresholds [get]
func (h *ThresholdHandler) Get(c *gin.Context) {
	cfg, err := h.thresholds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// Save godoc
// @Summary Replace course attainment thresholds
// @Tags Thresholds
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body service.SaveThresholdsRequest true "Threshold configuration"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/thresholds [put]
func (h *ThresholdHandler) Save(c *gin.Context) {
	var req service.SaveThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid threshold payload"))
		return
	}
	cfg, err := h.thresholds.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
