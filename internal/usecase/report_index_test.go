package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<html>"+name+"</html>"), 0o644))
}

func TestParseReportName(t *testing.T) {
	cases := []struct {
		in   string
		date string
		typ  models.ReportType
		ok   bool
	}{
		{"2024-05-01-daily.html", "2024-05-01", "daily", true},
		{"2024-05-01-premarket.html", "2024-05-01", "premarket", true},
		{"2024-05-01.html", "2024-05-01", "daily", true},
		{"index.html", "", "", false},
		{"2024-05-01-daily.json", "", "", false},
		{"2024-13-01-daily.html", "", "", false},
		{"2024-05-01x.html", "", "", false},
	}
	for _, tc := range cases {
		date, typ, ok := ParseReportName(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.date, date, tc.in)
		assert.Equal(t, tc.typ, typ, tc.in)
	}
}

func TestReportIndexList(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"index.html", "2024-05-01-premarket.html", "2024-05-01-options.html", "2024-05-02-daily.html", "2024-04-30.html", "notes.txt", "2024-05-02-daily.json"} {
		touch(t, dir, n)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o755))

	list, err := NewReportIndex(dir).List()
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, "2024-05-02", list[0].Date)
	assert.Equal(t, "综合日报", list[0].TypeDisplay)
	assert.Equal(t, "Daily Report", list[0].TypeDisplayEn)
	assert.Equal(t, models.ReportPremarket, list[1].Type)
	assert.Equal(t, models.ReportOptions, list[2].Type)
	assert.Equal(t, "2024-04-30", list[3].Date)
	assert.Equal(t, "/report/2024-04-30?report_type=daily", list[3].URL)
}

func TestReportIndexListMissingDir(t *testing.T) {
	list, err := NewReportIndex(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReportIndexFind(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "2024-05-01-premarket.html")
	touch(t, dir, "2024-04-30.html")
	x := NewReportIndex(dir)

	p, err := x.Find("2024-05-01", models.ReportPremarket)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-05-01-premarket.html"), p)

	p, err = x.Find("2024-04-30", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-04-30.html"), p)

	_, err = x.Find("2024-05-01", models.ReportOptions)
	assert.ErrorIs(t, err, models.ErrReportNotFound)

	_, err = x.Find("2024-5-1", "")
	assert.ErrorIs(t, err, models.ErrInvalidDate)

	_, err = x.Find("2024-05-01", "../premarket")
	assert.ErrorIs(t, err, models.ErrReportNotFound)
}

func TestReportIndexLatest(t *testing.T) {
	dir := t.TempDir()
	x := NewReportIndex(dir)
	_, ok := x.Latest()
	assert.False(t, ok)

	touch(t, dir, "index.html")
	p, ok := x.Latest()
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "index.html"), p)
}
