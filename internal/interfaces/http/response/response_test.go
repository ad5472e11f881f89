package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "pix-charge.backend/internal/domain/errors"
	"pix-charge.backend/internal/interfaces/http/response"
)

func record(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t", handler)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/t", nil))
	return rec
}

func TestError_AppError(t *testing.T) {
	rec := record(func(c *gin.Context) {
		response.Error(c, domainerrors.NotFound("payment not found"))
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestError_DomainSentinel(t *testing.T) {
	rec := record(func(c *gin.Context) {
		response.Error(c, domainerrors.ErrInvalidTransition)
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestError_UnknownErrorHidesDetail(t *testing.T) {
	rec := record(func(c *gin.Context) {
		response.Error(c, errors.New("secret internal state"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret internal state")
}
