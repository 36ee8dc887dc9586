package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	base := zaptest.NewLogger(t)
	var scoped *zap.Logger

	r := gin.New()
	r.Use(RequestLogger(base))
	r.GET("/x", func(c *gin.Context) {
		scoped = FromContext(c, nil)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	require.NoError(t, err)
	require.NotNil(t, scoped)
	require.NotSame(t, base, scoped)
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger(zaptest.NewLogger(t)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestFromContextFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fallback := zaptest.NewLogger(t)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.Same(t, fallback, FromContext(c, fallback))
}
