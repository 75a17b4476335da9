package usecase

import (
	"context"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	domrepo "github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/internal/repository"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
)

// Enrichment input bounds.
const (
	inputNews          = 15
	inputRatingChanges = 10
	inputTopOptions    = 5
	inputEarnings      = 5
)

// AnalysisResult is what one analyzer run produced.
type AnalysisResult struct {
	Digest   models.Digest
	Enriched bool
	Provider string
}

// Analyzer asks the enricher for a digest of the day's data and persists
// it. Any enrichment failure degrades to the headline fallback.
type Analyzer struct {
	store    domrepo.SnapshotStore
	enricher domrepo.Enricher
	timeout  time.Duration
	limits   config.Limits
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

// NewAnalyzer creates an Analyzer. A nil enricher always falls back.
func NewAnalyzer(store domrepo.SnapshotStore, enricher domrepo.Enricher, timeout time.Duration, limits config.Limits, metrics domrepo.Metrics, l *applogger.Logger) *Analyzer {
	if l == nil {
		l = applogger.Nop()
	}
	return &Analyzer{
		store:    store,
		enricher: enricher,
		timeout:  timeout,
		limits:   limits,
		metrics:  metrics,
		l:        l.Component("analyzer"),
	}
}

// Analyze never fails: enrichment problems are logged and answered with
// the fallback digest, which is not persisted.
func (a *Analyzer) Analyze(ctx context.Context) AnalysisResult {
	news := repository.LoadSnapshot[models.NewsSnapshot](ctx, a.store, models.SnapshotNews)
	ratings := repository.LoadSnapshot[models.RatingsSnapshot](ctx, a.store, models.SnapshotRatings)
	options := repository.LoadSnapshot[models.OptionsSnapshot](ctx, a.store, models.SnapshotOptions)
	earnings := repository.LoadSnapshot[models.EarningsSnapshot](ctx, a.store, models.SnapshotEarnings)

	in := BuildEnrichmentInput(news.Doc, ratings.Doc, options.Doc, earnings.Doc)
	fallback := func() AnalysisResult {
		a.record("fallback")
		return AnalysisResult{Digest: FallbackDigest(news.Doc.News, a.limits.FallbackHeadlines, a.limits.HeadlineLength)}
	}

	if a.enricher == nil {
		a.l.Info("no enricher configured, using headline fallback")
		return fallback()
	}
	if len(in.News) == 0 {
		a.l.Warn("no news to analyze, using headline fallback")
		return fallback()
	}

	ectx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	start := time.Now()
	d, err := a.enricher.Enrich(ectx, in)
	if err != nil || d.Empty() {
		a.l.Warn("enrichment failed, using headline fallback",
			applogger.String("provider", a.enricher.Name()),
			applogger.Duration("elapsed_ms", time.Since(start)),
			applogger.Error(err),
		)
		return fallback()
	}

	digest := normalizeDigest(*d)
	if err := a.store.Write(ctx, models.SnapshotAnalysis, digest); err != nil {
		a.l.Error("save analysis failed", applogger.Error(err))
		a.recordError("analysis_save")
	}
	a.record("ok")
	a.l.Info("analysis complete",
		applogger.String("provider", a.enricher.Name()),
		applogger.Int("core_news", len(digest.CoreNews)),
		applogger.Int("focus_areas", len(digest.FocusAreas)),
		applogger.Duration("elapsed_ms", time.Since(start)),
	)
	return AnalysisResult{Digest: digest, Enriched: true, Provider: a.enricher.Name()}
}

func (a *Analyzer) record(outcome string) {
	if a.metrics != nil {
		a.metrics.RecordEnrichment(outcome)
	}
}

func (a *Analyzer) recordError(kind string) {
	if a.metrics != nil {
		a.metrics.RecordError(kind)
	}
}

// BuildEnrichmentInput takes the bounded slice of the day's data the
// enricher sees.
func BuildEnrichmentInput(news models.NewsSnapshot, ratings models.RatingsSnapshot, options models.OptionsSnapshot, earnings models.EarningsSnapshot) models.EnrichmentInput {
	in := models.EnrichmentInput{
		News:          append([]models.NewsItem{}, head(news.News, inputNews)...),
		RatingChanges: append([]models.RatingChange{}, head(ratings.RecentChanges, inputRatingChanges)...),
		Overview:      options.MarketOverview,
		TopOptions:    []string{},
		BeforeMarket:  []string{},
		AfterMarket:   []string{},
	}
	for _, o := range head(options.TopStocks, inputTopOptions) {
		in.TopOptions = append(in.TopOptions, o.Symbol)
	}
	for _, e := range head(earnings.BeforeMarket, inputEarnings) {
		in.BeforeMarket = append(in.BeforeMarket, e.Symbol)
	}
	for _, e := range head(earnings.AfterMarket, inputEarnings) {
		in.AfterMarket = append(in.AfterMarket, e.Symbol)
	}
	return in
}
