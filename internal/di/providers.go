package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/internal/handler/web"
	"github.com/Kiwitwitter/daily-finance/internal/render"
	internalrepo "github.com/Kiwitwitter/daily-finance/internal/repository"
	"github.com/Kiwitwitter/daily-finance/internal/service/calendar"
	"github.com/Kiwitwitter/daily-finance/internal/service/enricher"
	"github.com/Kiwitwitter/daily-finance/internal/service/finnhub"
	"github.com/Kiwitwitter/daily-finance/internal/service/ratelimit"
	"github.com/Kiwitwitter/daily-finance/internal/service/sources"
	"github.com/Kiwitwitter/daily-finance/internal/service/yahoo"
	"github.com/Kiwitwitter/daily-finance/internal/usecase"
	"github.com/Kiwitwitter/daily-finance/pkg/cache"
	pkgch "github.com/Kiwitwitter/daily-finance/pkg/clickhouse"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
	pkgkafka "github.com/Kiwitwitter/daily-finance/pkg/kafka"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/metrics"
	"github.com/Kiwitwitter/daily-finance/pkg/server"
)

// Provider sets shared by the injectors in wire.go.
var (
	baseSet = wire.NewSet(
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideSnapshotStore,
	)
	reportingSet = wire.NewSet(
		ProvideRenderer,
		ProvideAggregator,
		ProvideBuilder,
		ProvideIndex,
		ProvideWebHandler,
		ProvideHTTPServer,
	)
	sourcesSet = wire.NewSet(
		ProvideCache,
		ProvideYahooClient,
		ProvideFinnhubClient,
		ProvideCalendarScraper,
		ProvideFetchers,
		ProvideSnapshotPublisher,
		ProvideOptionsArchive,
		ProvideCollector,
	)
	analysisSet = wire.NewSet(
		ProvideEnricher,
		ProvideAnalyzer,
	)
)

const initTimeout = 10 * time.Second

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config, reg *prometheus.Registry) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.NewWithRegistry(reg)
}

func ProvideSnapshotStore(cfg *config.Config) repository.SnapshotStore {
	return internalrepo.NewFileSnapshotStore(cfg.Paths.DataDir)
}

func ProvideRenderer(cfg *config.Config) (*render.Renderer, error) {
	r, err := render.New(cfg.Paths.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return r, nil
}

func ProvideAggregator(cfg *config.Config, store repository.SnapshotStore, l *applogger.Logger) *usecase.ReportAggregator {
	return usecase.NewReportAggregator(store, cfg.Report.Limits, cfg.Location(), l)
}

func ProvideBuilder(
	cfg *config.Config,
	agg *usecase.ReportAggregator,
	r *render.Renderer,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ReportBuilder {
	return usecase.NewReportBuilder(agg, r, cfg.Paths.OutputDir, cfg.Location(), m, l)
}

func ProvideIndex(cfg *config.Config) *usecase.ReportIndex {
	return usecase.NewReportIndex(cfg.Paths.OutputDir)
}

func ProvideWebHandler(l *applogger.Logger, index *usecase.ReportIndex, r *render.Renderer) *web.ReportsHandler {
	return web.NewReportsHandler(l, index, r)
}

// ProvideHTTPServer creates the Echo server for the report routes.
func ProvideHTTPServer(cfg *config.Config, h *web.ReportsHandler, reg *prometheus.Registry, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithNoCache(true),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideCache creates the quote cache: in-memory, layered over Redis when enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	if !cfg.Cache.Redis.Enabled {
		return mem, func() { _ = mem.Close() }, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		_ = mem.Close()
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis quote cache enabled", applogger.String("host", cfg.Cache.Redis.Host))
	lc := cache.NewLayeredCache(mem, rc)
	return lc, func() { _ = lc.Close() }, nil
}

func ProvideYahooClient(cfg *config.Config, c cache.Service) *yahoo.Client {
	return yahoo.New(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout,
		yahoo.WithCache(c, cfg.Yahoo.CacheTTL),
		yahoo.WithLimiter(ratelimit.New(cfg.Yahoo.RequestsPerSec, 1)),
		yahoo.WithSession(cfg.Yahoo.CookieURL),
	)
}

// ProvideFinnhubClient fails with models.ErrMissingCredential when no API key is configured.
func ProvideFinnhubClient(cfg *config.Config) (*finnhub.Client, error) {
	return finnhub.New(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL, cfg.Finnhub.Timeout)
}

func ProvideCalendarScraper(cfg *config.Config) *calendar.Scraper {
	return calendar.New(cfg.Calendar.URL, cfg.Calendar.Country, cfg.Calendar.MaxEvents, cfg.Calendar.Timeout)
}

// ProvideFetchers builds one fetcher per snapshot source.
func ProvideFetchers(
	cfg *config.Config,
	fh *finnhub.Client,
	yh *yahoo.Client,
	cal *calendar.Scraper,
	l *applogger.Logger,
) []repository.Fetcher {
	loc := sources.WithLocation(cfg.Location())
	return []repository.Fetcher{
		sources.NewOptionsFetcher(yh, cfg.Yahoo.IndexSymbols, cfg.Yahoo.OptionsSymbols, l, loc),
		sources.NewNewsFetcher(fh, l, loc),
		sources.NewRatingsFetcher(yh, cfg.Yahoo.WatchedSymbols, l, loc),
		sources.NewCalendarFetcher(cal, l, loc),
		sources.NewEarningsFetcher(fh, yh, l, loc),
		sources.NewStockInfoFetcher(yh, cfg.Yahoo.StockInfoSymbol, l, loc),
	}
}

// ProvideSnapshotPublisher creates the Kafka snapshot publisher, or a no-op when Kafka is disabled.
func ProvideSnapshotPublisher(cfg *config.Config, l *applogger.Logger) (repository.SnapshotPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka snapshot publisher enabled",
		applogger.Strings("brokers", cfg.Kafka.Brokers),
		applogger.String("topic", cfg.Kafka.Topic),
	)
	pub := internalrepo.NewKafkaSnapshotPublisher(producer)
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

// ProvideOptionsArchive connects to ClickHouse and ensures the archive
// tables, or returns a no-op archive when ClickHouse is disabled.
func ProvideOptionsArchive(cfg *config.Config, l *applogger.Logger) (repository.OptionsArchive, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return internalrepo.NoopOptionsArchive{}, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	archive := internalrepo.NewClickHouseOptionsArchive(client)
	if err := archive.Init(ctx); err != nil {
		_ = archive.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse options archive ready", applogger.String("database", cfg.ClickHouse.Database))
	return archive, func() {
		if err := archive.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

func ProvideCollector(
	cfg *config.Config,
	store repository.SnapshotStore,
	fetchers []repository.Fetcher,
	pub repository.SnapshotPublisher,
	archive repository.OptionsArchive,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SnapshotCollector {
	return usecase.NewSnapshotCollector(store, fetchers, pub, archive, m, cfg.Scheduler.SourceTimeout, l)
}

// ProvideEnricher builds the configured enricher. A missing API key is not
// fatal here: the analyzer then always uses the fallback digest.
func ProvideEnricher(cfg *config.Config, l *applogger.Logger) (repository.Enricher, error) {
	e, err := enricher.New(cfg)
	switch {
	case errors.Is(err, models.ErrMissingCredential):
		l.Warn("enricher disabled, using fallback digest", applogger.Error(err))
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("enricher: %w", err)
	}
	return e, nil
}

func ProvideAnalyzer(
	cfg *config.Config,
	store repository.SnapshotStore,
	e repository.Enricher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(store, e, cfg.Enricher.Timeout, cfg.Report.Limits, m, l)
}

func ProvideDailyJob(
	c *usecase.SnapshotCollector,
	a *usecase.Analyzer,
	b *usecase.ReportBuilder,
	l *applogger.Logger,
) *usecase.DailyJob {
	return usecase.NewDailyJob(c, a, b, l)
}

func ProvidePipeline(c *usecase.SnapshotCollector, a *usecase.Analyzer, j *usecase.DailyJob) *server.Pipeline {
	return &server.Pipeline{Collector: c, Analyzer: a, Job: j}
}

// ProvideApp creates the application without the source pipeline.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	b *usecase.ReportBuilder,
	index *usecase.ReportIndex,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, b, index, srv)
}

// ProvidePipelineApp creates the application with the source pipeline attached.
func ProvidePipelineApp(
	cfg *config.Config,
	l *applogger.Logger,
	b *usecase.ReportBuilder,
	index *usecase.ReportIndex,
	srv *xhttp.Server,
	p *server.Pipeline,
) *server.App {
	return server.New(cfg, l, b, index, srv).WithPipeline(p)
}
