package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/render"
	"github.com/Kiwitwitter/daily-finance/pkg/metrics"
)

func newTestBuilder(t *testing.T, dataDir, outDir string) *ReportBuilder {
	t.Helper()
	r, err := render.New("")
	require.NoError(t, err)
	agg := newTestAggregator(t, dataDir)
	b := NewReportBuilder(agg, r, outDir, agg.loc, metrics.Nop{}, nil)
	b.now = func() time.Time { return time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC) }
	return b
}

func TestReportBuilderCombined(t *testing.T) {
	data, out := t.TempDir(), filepath.Join(t.TempDir(), "output")
	writeFixtureSet(t, data)

	paths, err := newTestBuilder(t, data, out).Build(context.Background(), models.BuildCombined, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(out, "2024-05-01-daily.html"),
		filepath.Join(out, "index.html"),
		filepath.Join(out, "2024-05-01-daily.json"),
	}, paths)

	daily, err := os.ReadFile(filepath.Join(out, "2024-05-01-daily.html"))
	require.NoError(t, err)
	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, daily, index)
	assert.Contains(t, string(daily), "ISM Manufacturing")

	_, err = os.Stat(filepath.Join(out, "assets", "styles.css"))
	assert.NoError(t, err)
}

func TestReportBuilderBoth(t *testing.T) {
	out := t.TempDir()
	paths, err := newTestBuilder(t, t.TempDir(), out).Build(context.Background(), models.BuildBoth, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
	assert.FileExists(t, filepath.Join(out, "2024-05-01-premarket.html"))
	assert.FileExists(t, filepath.Join(out, "2024-05-01-options.html"))
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestReportBuilderOptionsDoesNotTouchIndex(t *testing.T) {
	out := t.TempDir()
	_, err := newTestBuilder(t, t.TempDir(), out).Build(context.Background(), models.BuildOptions, nil)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, "index.html"))
}

func TestReportBuilderIdempotentJSON(t *testing.T) {
	data, out := t.TempDir(), t.TempDir()
	writeFixtureSet(t, data)
	b := newTestBuilder(t, data, out)

	_, err := b.Build(context.Background(), models.BuildCombined, nil)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(out, "2024-05-01-daily.json"))
	require.NoError(t, err)

	_, err = b.Build(context.Background(), models.BuildCombined, nil)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(out, "2024-05-01-daily.json"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestReportBuilderOutputDirFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := newTestBuilder(t, t.TempDir(), filepath.Join(blocker, "out")).Build(context.Background(), models.BuildCombined, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrOutputDir)
}

func TestReportBuilderRejectsBadDate(t *testing.T) {
	_, err := newTestBuilder(t, t.TempDir(), t.TempDir()).BuildForDate(context.Background(), models.BuildCombined, "05/01/2024", nil)
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}
