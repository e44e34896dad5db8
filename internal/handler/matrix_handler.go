package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/obe-attainment-api/internal/service"
	appErrors "github.com/noah-isme/obe-attainment-api/pkg/errors"
	"github.com/noah-isme/obe-attainment-api/pkg/response"
)

// ImportRequest carries pasted or uploaded tabular text. Delimiter is
// optional; when empty it is sniffed from the header line.
type ImportRequest struct {
	Payload   string `json:"payload" binding:"required"`
	Delimiter string `json:"delimiter"`
}

func (r ImportRequest) delimiterRune() rune {
	if r.Delimiter == "" {
		return 0
	}
	return []rune(r.Delimiter)[0]
}

// MatrixHandler manages CO/PO correlation matrix endpoints.
type MatrixHandler struct {
	matrix *service.MatrixService
}

// NewMatrixHandler constructs the matrix handler.
func NewMatrixHandler(matrix *service.MatrixService) *MatrixHandler {
	return &MatrixHandler{matrix: matrix}
}

// Get godoc
// @Summary Course correlation matrix
// @Tags Matrix
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/matrix [get]
func (h *MatrixHandler) Get(c *gin.Context) {
	state, err := h.matrix.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// UpdateCell godoc
// @Summary Update one matrix cell
// @Tags Matrix
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body service.UpdateCellRequest true "Cell update"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/matrix/cells [put]
func (h *MatrixHandler) UpdateCell(c *gin.Context) {
	var req service.UpdateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid cell payload"))
		return
	}
	state, err := h.matrix.UpdateCell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Import godoc
// @Summary Import matrix rows from tabular text
// @Tags Matrix
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body ImportRequest true "Tabular payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/matrix/import [post]
func (h *MatrixHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid import payload"))
		return
	}
	state, result, err := h.matrix.Import(c.Request.Context(), c.Param("id"), req.Payload, req.delimiterRune())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"matrix": state, "import": result}, nil)
}

// Commit godoc
// @Summary Persist pending matrix edits
// @Tags Matrix
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/matrix/commit [post]
func (h *MatrixHandler) Commit(c *gin.Context) {
	state, err := h.matrix.Commit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Discard drops pending matrix edits for the course.
func (h *MatrixHandler) Discard(c *gin.Context) {
	h.matrix.Discard(c.Param("id"))
	response.NoContent(c)
}
