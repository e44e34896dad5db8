package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/obe-attainment-api/internal/service"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/response"
)

// TestHandler manages test and question scheme endpoints.
type TestHandler struct {
	tests *service.TestService
}

// NewTestHandler constructs the test handler.
func NewTestHandler(tests *service.TestService) *TestHandler {
	return &TestHandler{tests: tests}
}

// List godoc
// @Summary Course tests with question schemes
// @Tags Tests
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/tests [get]
func (h *TestHandler) List(c *gin.Context) {
	tests, err := h.tests.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tests, nil)
}

// Create godoc
// @Summary Register a test with its question scheme
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body service.CreateTestRequest true "Test definition"
// @Success 201 {object} response.Envelope
// @Router /courses/{id}/tests [post]
func (h *TestHandler) Create(c *gin.Context) {
	var req service.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid test payload"))
		return
	}
	created, err := h.tests.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}
