package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
)

// DailyResult summarizes one daily run.
type DailyResult struct {
	RunID    string               `json:"run_id"`
	Fetches  []models.FetchResult `json:"fetches"`
	Analysis *AnalysisResult      `json:"-"`
	Reports  []string             `json:"reports"`
	Built    bool                 `json:"built"`
}

// DailyJob fetches every source, optionally runs the analyzer, and builds
// the combined report when at least one source succeeded.
type DailyJob struct {
	collector *SnapshotCollector
	analyzer  *Analyzer
	builder   *ReportBuilder
	l         *applogger.Logger
}

// NewDailyJob creates the job. analyzer may be nil to skip enrichment.
func NewDailyJob(collector *SnapshotCollector, analyzer *Analyzer, builder *ReportBuilder, l *applogger.Logger) *DailyJob {
	if l == nil {
		l = applogger.Nop()
	}
	return &DailyJob{collector: collector, analyzer: analyzer, builder: builder, l: l.Component("daily_job")}
}

func (j *DailyJob) Name() string { return "daily" }

// Run satisfies scheduler.Job.
func (j *DailyJob) Run(ctx context.Context) error {
	_, err := j.RunOnce(ctx)
	return err
}

// RunOnce performs a single run. The error is non-nil only for failures
// that stop the run: an unusable output directory or a cancelled context.
func (j *DailyJob) RunOnce(ctx context.Context) (*DailyResult, error) {
	res := &DailyResult{RunID: uuid.NewString()}
	l := j.l.With(applogger.String("run_id", res.RunID))
	start := time.Now()
	l.Info("daily run started")

	fetches, err := j.collector.Collect(ctx)
	res.Fetches = fetches
	if err != nil {
		return res, err
	}
	ok := Succeeded(fetches)
	l.Info("fetch phase complete", applogger.Int("succeeded", ok), applogger.Int("total", len(fetches)))
	if ok == 0 {
		l.Warn("every source failed, skipping report build")
		return res, nil
	}

	var supplied *models.Digest
	if j.analyzer != nil {
		a := j.analyzer.Analyze(ctx)
		res.Analysis = &a
		if a.Enriched {
			supplied = &a.Digest
		}
	}

	paths, err := j.builder.Build(ctx, models.BuildCombined, supplied)
	res.Reports = paths
	if err != nil {
		l.Error("report build failed", applogger.Error(err))
		return res, err
	}
	res.Built = true
	l.Info("daily run finished",
		applogger.Int("reports", len(paths)),
		applogger.Duration("elapsed_ms", time.Since(start)),
	)
	return res, nil
}
