package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/obe-attainment-api/internal/models"
	"github.com/noah-isme/obe-attainment-api/internal/service"
)

type matrixRepoMock struct {
	stored models.CorrelationMatrix
	saved  models.CorrelationMatrix
}

func (m *matrixRepoMock) FindByCourse(ctx context.Context, courseID string) (models.CorrelationMatrix, error) {
	if m.stored == nil {
		return models.NewCorrelationMatrix(), nil
	}
	return m.stored.Clone(), nil
}

func (m *matrixRepoMock) Save(ctx context.Context, courseID string, matrix models.CorrelationMatrix) error {
	m.saved = matrix.Clone()
	return nil
}

func matrixTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader([]byte{})
	} else {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	return c, w
}

func TestMatrixHandlerImportThenCommit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &matrixRepoMock{}
	handler := NewMatrixHandler(service.NewMatrixService(repo, nil, nil, nil))

	body, _ := json.Marshal(ImportRequest{Payload: "CO,PO1,PO3,PSO2\nCO2,2,,1\n"})
	c, w := matrixTestContext(t, http.MethodPost, "/courses/c1/matrix/import", body)
	handler.Import(c)
	require.Equal(t, http.StatusOK, w.Code)
	// import stages the rows without touching storage
	assert.Nil(t, repo.saved)

	c, w = matrixTestContext(t, http.MethodPost, "/courses/c1/matrix/commit", nil)
	handler.Commit(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.saved)
	assert.Equal(t, 2, repo.saved.Value("CO2", "PO1"))
	assert.Equal(t, 1, repo.saved.Value("CO2", "PSO2"))
}

func TestMatrixHandlerUpdateCellRejectsUnknownLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMatrixHandler(service.NewMatrixService(&matrixRepoMock{}, nil, nil, nil))

	body, _ := json.Marshal(service.UpdateCellRequest{CO: "CO9", PO: "PO1", Value: 2})
	c, w := matrixTestContext(t, http.MethodPut, "/courses/c1/matrix/cells", body)
	handler.UpdateCell(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatrixHandlerImportEmptyPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMatrixHandler(service.NewMatrixService(&matrixRepoMock{}, nil, nil, nil))

	body, _ := json.Marshal(ImportRequest{Payload: "   "})
	c, w := matrixTestContext(t, http.MethodPost, "/courses/c1/matrix/import", body)
	handler.Import(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatrixHandlerDiscard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &matrixRepoMock{}
	handler := NewMatrixHandler(service.NewMatrixService(repo, nil, nil, nil))

	body, _ := json.Marshal(service.UpdateCellRequest{CO: "CO1", PO: "PO1", Value: 3})
	c, w := matrixTestContext(t, http.MethodPut, "/courses/c1/matrix/cells", body)
	handler.UpdateCell(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = matrixTestContext(t, http.MethodDelete, "/courses/c1/matrix/draft", nil)
	handler.Discard(c)
	// flush the status the way the gin engine does after the handler chain
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	c, w = matrixTestContext(t, http.MethodGet, "/courses/c1/matrix", nil)
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dirty":false`)
}
