package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/repository"
	"github.com/Kiwitwitter/daily-finance/pkg/metrics"
)

type stubEnricher struct {
	digest *models.Digest
	err    error
	wait   bool
	got    models.EnrichmentInput
}

func (e *stubEnricher) Name() string { return "stub" }

func (e *stubEnricher) Enrich(ctx context.Context, in models.EnrichmentInput) (*models.Digest, error) {
	e.got = in
	if e.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return e.digest, e.err
}

func newTestAnalyzer(dir string, e *stubEnricher) *Analyzer {
	store := repository.NewFileSnapshotStore(dir)
	if e == nil {
		return NewAnalyzer(store, nil, time.Second, testLimits(), metrics.Nop{}, nil)
	}
	return NewAnalyzer(store, e, 50*time.Millisecond, testLimits(), metrics.Nop{}, nil)
}

func TestAnalyzerPersistsDigest(t *testing.T) {
	dir := t.TempDir()
	writeFixtureSet(t, dir)
	e := &stubEnricher{digest: &models.Digest{CoreNews: []models.CoreNews{{Tag: "宏观", TagEn: "Macro", Summary: "美联储按兵不动", SummaryEn: "Fed holds"}}}}

	res := newTestAnalyzer(dir, e).Analyze(context.Background())
	assert.True(t, res.Enriched)
	assert.Equal(t, "stub", res.Provider)
	assert.NotNil(t, res.Digest.FocusAreas)
	assert.FileExists(t, filepath.Join(dir, "analysis.json"))

	assert.Equal(t, []string{"TSLA", "NVDA"}, e.got.TopOptions)
	assert.Equal(t, []string{"AAPL"}, e.got.AfterMarket)
	assert.Empty(t, e.got.BeforeMarket)
}

func TestAnalyzerFallbacks(t *testing.T) {
	cases := map[string]*stubEnricher{
		"error":   {err: fmt.Errorf("%w: exit 1", models.ErrEnrichmentFailed)},
		"empty":   {digest: &models.Digest{}},
		"timeout": {wait: true},
		"nil":     nil,
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixtureSet(t, dir)

			res := newTestAnalyzer(dir, e).Analyze(context.Background())
			assert.False(t, res.Enriched)
			require.Len(t, res.Digest.CoreNews, 1)
			assert.Equal(t, FallbackTag, res.Digest.CoreNews[0].Tag)
			assert.Equal(t, "Fed holds rates", res.Digest.CoreNews[0].Summary)
			assert.NoFileExists(t, filepath.Join(dir, "analysis.json"))
		})
	}
}

func TestAnalyzerNoNewsSkipsEnricher(t *testing.T) {
	e := &stubEnricher{err: errors.New("should not be called")}
	res := newTestAnalyzer(t.TempDir(), e).Analyze(context.Background())
	assert.False(t, res.Enriched)
	assert.Empty(t, res.Digest.CoreNews)
	assert.Empty(t, e.got.News)
}

func TestBuildEnrichmentInputBounds(t *testing.T) {
	var news models.NewsSnapshot
	for i := 0; i < 40; i++ {
		news.News = append(news.News, models.NewsItem{ID: int64(i)})
	}
	var ratings models.RatingsSnapshot
	for i := 0; i < 20; i++ {
		ratings.RecentChanges = append(ratings.RecentChanges, models.RatingChange{Symbol: fmt.Sprint(i)})
	}
	var options models.OptionsSnapshot
	var earnings models.EarningsSnapshot
	for i := 0; i < 25; i++ {
		options.TopStocks = append(options.TopStocks, models.OptionsEntry{Symbol: fmt.Sprintf("S%d", i)})
		earnings.BeforeMarket = append(earnings.BeforeMarket, models.EarningsEvent{Symbol: fmt.Sprintf("B%d", i)})
	}

	in := BuildEnrichmentInput(news, ratings, options, earnings)
	assert.Len(t, in.News, 15)
	assert.Len(t, in.RatingChanges, 10)
	assert.Equal(t, []string{"S0", "S1", "S2", "S3", "S4"}, in.TopOptions)
	assert.Len(t, in.BeforeMarket, 5)
	assert.NotNil(t, in.AfterMarket)
	assert.Empty(t, in.AfterMarket)
}
