package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodhouse/internal/apperr"
	"foodhouse/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An unexpected failure yields exactly one 500 body, rendered by the
// ErrorHandler middleware after the handler hands the error over.
func TestWriteErrorInternalRendersSingleBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		writeError(c, errors.New("pq: connection reset by peer"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	dec := json.NewDecoder(w.Body)
	var envelope apperr.APIError
	require.NoError(t, dec.Decode(&envelope))
	assert.Equal(t, "internal server error", envelope.Detail)
	// The driver message stays server-side and no second document follows.
	assert.False(t, dec.More())
}

func TestWriteErrorBusinessKindMapsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) {
		writeError(c, apperr.Conflict("cart version mismatch"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	assert.Equal(t, http.StatusConflict, w.Code)

	var envelope apperr.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "cart version mismatch", envelope.Detail)
}
