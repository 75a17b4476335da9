package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/items/:id", func(c echo.Context) error {
		var req struct {
			ID   string `param:"id" validate:"datetime=2006-01-02"`
			Kind string `query:"kind" default:"daily"`
		}
		if errs := BindAndValidate(c, &req); errs != nil {
			return BadRequestResponse(c, errs)
		}
		return DataResponse(c, http.StatusOK, req.Kind)
	})
}

func serve(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServerNoCacheHeaders(t *testing.T) {
	rec := serve(NewServer(pingHandler{}, nil), "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestServerRecoversPanics(t *testing.T) {
	rec := serve(NewServer(pingHandler{}, nil), "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServerMetricsEndpoint(t *testing.T) {
	s := NewServer(pingHandler{}, nil, WithMetrics(prometheus.NewRegistry(), "/metrics"))
	require.Equal(t, http.StatusOK, serve(s, "/ping").Code)

	rec := serve(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dailyfin_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestBindAndValidate(t *testing.T) {
	s := NewServer(pingHandler{}, nil)

	rec := serve(s, "/items/2024-05-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":"daily"`)

	rec = serve(s, "/items/20240501")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_DATETIME")
}
