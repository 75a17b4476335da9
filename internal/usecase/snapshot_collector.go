package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	domrepo "github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/internal/repository"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
)

// SnapshotCollector runs source fetchers one after another and persists
// each document. A failing source never stops the others.
type SnapshotCollector struct {
	store     domrepo.SnapshotStore
	fetchers  map[models.SnapshotName]domrepo.Fetcher
	publisher domrepo.SnapshotPublisher
	archive   domrepo.OptionsArchive
	metrics   domrepo.Metrics
	timeout   time.Duration
	l         *applogger.Logger
}

func NewSnapshotCollector(
	store domrepo.SnapshotStore,
	fetchers []domrepo.Fetcher,
	publisher domrepo.SnapshotPublisher,
	archive domrepo.OptionsArchive,
	metrics domrepo.Metrics,
	timeout time.Duration,
	l *applogger.Logger,
) *SnapshotCollector {
	if publisher == nil {
		publisher = repository.NoopPublisher{}
	}
	if archive == nil {
		archive = repository.NoopOptionsArchive{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	byName := make(map[models.SnapshotName]domrepo.Fetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.Source()] = f
	}
	return &SnapshotCollector{
		store:     store,
		fetchers:  byName,
		publisher: publisher,
		archive:   archive,
		metrics:   metrics,
		timeout:   timeout,
		l:         l.Component("collector"),
	}
}

// Sources lists the configured fetchers in run order.
func (c *SnapshotCollector) Sources() []models.SnapshotName {
	var out []models.SnapshotName
	for _, n := range models.FetchOrder {
		if _, ok := c.fetchers[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Collect fetches the named sources, or every configured source when none
// are named. Only an unknown source name is an error; fetch failures are
// reported in the results.
func (c *SnapshotCollector) Collect(ctx context.Context, names ...models.SnapshotName) ([]models.FetchResult, error) {
	if len(names) == 0 {
		names = c.Sources()
	}
	for _, n := range names {
		if _, ok := c.fetchers[n]; !ok {
			return nil, fmt.Errorf("%w: %q is not configured", models.ErrUnknownSource, n)
		}
	}

	results := make([]models.FetchResult, 0, len(names))
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, c.collectOne(ctx, c.fetchers[n]))
	}
	return results, nil
}

func (c *SnapshotCollector) collectOne(ctx context.Context, f domrepo.Fetcher) models.FetchResult {
	name := f.Source()
	start := time.Now()
	res := models.FetchResult{Source: name}

	err := func() error {
		fctx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		doc, n, err := f.Fetch(fctx)
		if err != nil {
			return err
		}
		if err := c.store.Write(ctx, name, doc); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		res.Records = n
		c.mirror(ctx, name, doc)
		return nil
	}()

	elapsed := time.Since(start)
	res.Elapsed = elapsed.Round(time.Millisecond).String()
	res.OK = err == nil
	if c.metrics != nil {
		c.metrics.RecordFetch(string(name), res.OK, elapsed.Seconds())
	}
	if err != nil {
		res.Error = err.Error()
		c.l.Error("fetch failed",
			applogger.String("source", string(name)),
			applogger.Duration("elapsed_ms", elapsed),
			applogger.Error(err),
		)
		return res
	}
	c.l.Info("fetch complete",
		applogger.String("source", string(name)),
		applogger.Int("records", res.Records),
		applogger.Duration("elapsed_ms", elapsed),
	)
	return res
}

// mirror copies a saved document to the optional bus and archive. Failures
// are logged only.
func (c *SnapshotCollector) mirror(ctx context.Context, name models.SnapshotName, doc any) {
	payload, err := repository.EncodeJSON(doc)
	if err != nil {
		c.l.Warn("encode for publish failed", applogger.String("source", string(name)), applogger.Error(err))
		return
	}
	var meta models.Meta
	_ = json.Unmarshal(payload, &meta)

	if err := c.publisher.PublishSnapshot(ctx, name, meta.Date, payload); err != nil {
		c.recordError("publish")
		c.l.Warn("snapshot publish failed", applogger.String("source", string(name)), applogger.Error(err))
	}

	if snap, ok := doc.(models.OptionsSnapshot); ok {
		if err := c.archive.StoreOverview(ctx, snap.Date, snap.MarketOverview, snap.TopStocks); err != nil {
			c.recordError("archive")
			c.l.Warn("options archive failed", applogger.String("date", snap.Date), applogger.Error(err))
		}
	}
}

func (c *SnapshotCollector) recordError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}

// Succeeded counts successful results.
func Succeeded(results []models.FetchResult) int {
	n := 0
	for _, r := range results {
		if r.OK {
			n++
		}
	}
	return n
}
