package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/obe-attainment-api/internal/middleware"
	"github.com/noah-isme/obe-attainment-api/internal/service"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/response"
)

// AttainmentHandler exposes the computed attainment report.
type AttainmentHandler struct {
	attainment *service.AttainmentService
}

// NewAttainmentHandler constructs the attainment handler.
func NewAttainmentHandler(attainment *service.AttainmentService) *AttainmentHandler {
	return &AttainmentHandler{attainment: attainment}
}

// Report godoc
// @Summary Course attainment report
// @Tags Attainment
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/attainment [get]
func (h *AttainmentHandler) Report(c *gin.Context) {
	if h.attainment == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.attainment.Compute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetProcessingTime(c, time.Since(start))
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{
			"cache_hit":          cacheHit,
			"processing_time_ms": time.Since(start).Milliseconds(),
		}
	}
	response.JSON(c, http.StatusOK, report, nil, meta)
}
