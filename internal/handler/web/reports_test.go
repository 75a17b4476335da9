package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/render"
	"github.com/Kiwitwitter/daily-finance/internal/usecase"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
)

func newTestServer(t *testing.T, outDir string) *xhttp.Server {
	t.Helper()
	r, err := render.New("")
	require.NoError(t, err)
	return xhttp.NewServer(NewReportsHandler(nil, usecase.NewReportIndex(outDir), r), nil)
}

func get(s *xhttp.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestIndexPlaceholder(t *testing.T) {
	rec := get(newTestServer(t, t.TempDir()), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "暂无报告")
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestIndexLatest(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "index.html", "<p>latest</p>")
	rec := get(newTestServer(t, out), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "latest")
}

func TestReportRoute(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "2024-05-01-daily.html", "daily report")
	writeFile(t, out, "2024-05-01-options.html", "options report")
	writeFile(t, out, "2024-04-30.html", "legacy report")
	s := newTestServer(t, out)

	cases := []struct {
		target string
		code   int
		body   string
	}{
		{"/report/2024-05-01", http.StatusOK, "daily report"},
		{"/report/2024-05-01?report_type=options", http.StatusOK, "options report"},
		{"/report/2024-04-30?report_type=premarket", http.StatusOK, "legacy report"},
		{"/report/2024-05-02", http.StatusNotFound, "not found"},
		{"/report/05-01-2024", http.StatusBadRequest, "ERR_DATETIME"},
		{"/report/2024-05-01?report_type=..%2Fsecret", http.StatusNotFound, "not found"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			rec := get(s, tc.target)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestReportsPages(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "2024-05-01-daily.html", "")
	writeFile(t, out, "2024-05-01-premarket.html", "")
	writeFile(t, out, "2024-04-30-options.html", "")
	writeFile(t, out, "index.html", "")
	s := newTestServer(t, out)

	rec := get(s, "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ReportsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Reports, 3)
	assert.Equal(t, models.ReportPremarket, list.Reports[0].Type)
	assert.Equal(t, "/report/2024-05-01?report_type=premarket", list.Reports[0].URL)
	assert.Equal(t, "2024-04-30", list.Reports[2].Date)

	rec = get(s, "/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "盘前报告")
	assert.Contains(t, rec.Body.String(), "2024-04-30")
}

func TestAPIReportsEmpty(t *testing.T) {
	rec := get(newTestServer(t, filepath.Join(t.TempDir(), "missing")), "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reports":[]}`, rec.Body.String())
}

func TestHealthAndAssets(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "assets/styles.css", "body{}")
	s := newTestServer(t, out)

	rec := get(s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var h models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, Version, h.Version)

	rec = get(s, "/assets/styles.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}
