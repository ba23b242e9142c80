package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTurn(t *testing.T) {
	c := NewCollector()
	c.ObserveTurn("add_to_cart", OutcomeOK, 20*time.Millisecond)
	c.ObserveTurn("add_to_cart", OutcomeOK, 30*time.Millisecond)
	c.ObserveTurn("", OutcomeError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.agentTurns.WithLabelValues("add_to_cart", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.agentTurns.WithLabelValues("none", OutcomeError)))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()

	r := gin.New()
	r.Use(c.GinMiddleware())
	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(c.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.catalogRequests.WithLabelValues("/ping", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "catalog_requests_total"))
}
