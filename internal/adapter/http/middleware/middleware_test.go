package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskflow/internal/metrics"
	"taskflow/pkg/apierrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	require.Len(t, generated, 36)
	require.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(router, req)
	require.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	require.Equal(t, "abc-123", rec.Body.String())
}

func TestLanguageMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(LanguageMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetLang(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9,en;q=0.5")
	require.Equal(t, "fr", serve(router, req).Body.String())

	require.Equal(t, "en", serve(router, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter, err := RateLimitMiddleware("2-M")
	require.NoError(t, err)

	router := gin.New()
	router.Use(LanguageMiddleware())
	router.POST("/parse", limiter, func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 2 {
		rec := serve(router, httptest.NewRequest(http.MethodPost, "/parse", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/parse", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, http.StatusTooManyRequests, got.ErrDetails.Code)
}

func TestRateLimitMiddleware_InvalidRate(t *testing.T) {
	_, err := RateLimitMiddleware("thirty per minute")
	require.Error(t, err)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	router := gin.New()
	router.Use(MetricsMiddleware(m))
	router.GET("/api/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(router, httptest.NewRequest(http.MethodGet, "/api/tasks/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/tasks/2", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	expected := `
# HELP taskflow_http_requests_total HTTP requests by method, route and status.
# TYPE taskflow_http_requests_total counter
taskflow_http_requests_total{method="GET",route="/api/tasks/:id",status="204"} 2
taskflow_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "taskflow_http_requests_total"))
}

func TestGinZapMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	router := gin.New()
	router.Use(RequestIDMiddleware(), GinZapMiddleware(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(router, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zap.InfoLevel, entries[0].Level)
	require.Equal(t, zap.ErrorLevel, entries[1].Level)
	require.NotEmpty(t, entries[0].ContextMap()["request_id"])
	require.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}
