package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	domrepo "github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/internal/render"
	"github.com/Kiwitwitter/daily-finance/internal/repository"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

const (
	indexFile = "index.html"
	assetsDir = "assets"
)

// ReportBuilder renders report views into the output directory.
type ReportBuilder struct {
	agg       *ReportAggregator
	renderer  *render.Renderer
	outputDir string
	loc       *time.Location
	metrics   domrepo.Metrics
	l         *applogger.Logger
	now       func() time.Time
}

func NewReportBuilder(agg *ReportAggregator, renderer *render.Renderer, outputDir string, loc *time.Location, metrics domrepo.Metrics, l *applogger.Logger) *ReportBuilder {
	if loc == nil {
		loc = time.UTC
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &ReportBuilder{
		agg:       agg,
		renderer:  renderer,
		outputDir: outputDir,
		loc:       loc,
		metrics:   metrics,
		l:         l.Component("report_builder"),
		now:       time.Now,
	}
}

// Today is the report date in the configured time zone.
func (b *ReportBuilder) Today() string {
	return b.now().In(b.loc).Format(util.DateLayout)
}

// Build renders today's reports of the given kind and returns the written paths.
func (b *ReportBuilder) Build(ctx context.Context, kind models.BuildKind, supplied *models.Digest) ([]string, error) {
	return b.BuildForDate(ctx, kind, b.Today(), supplied)
}

// BuildForDate renders the reports for date. Only an unusable output
// directory or a render failure is an error; missing data is not.
func (b *ReportBuilder) BuildForDate(ctx context.Context, kind models.BuildKind, date string, supplied *models.Digest) ([]string, error) {
	if !util.IsDate(date) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}
	start := time.Now()
	if err := b.setupOutputDir(); err != nil {
		return nil, err
	}

	view := b.agg.Build(ctx, date, supplied)
	if b.metrics != nil {
		b.metrics.RecordDigestSource(string(view.DigestSource))
	}
	b.l.Info("report view aggregated",
		applogger.String("date", date),
		applogger.String("kind", string(kind)),
		applogger.String("digest_source", string(view.DigestSource)),
	)

	var written []string
	write := func(name string, data []byte) error {
		p := filepath.Join(b.outputDir, name)
		if err := repository.WriteFileAtomic(p, data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, p)
		return nil
	}
	renderTo := func(tmpl string, typ models.ReportType, alsoIndex bool) error {
		html, err := b.renderer.Render(tmpl, render.Page{ReportView: view, Kind: typ})
		if err != nil {
			return err
		}
		if err := write(typ.FileName(date), html); err != nil {
			return err
		}
		if alsoIndex {
			return write(indexFile, html)
		}
		return nil
	}

	var err error
	switch kind {
	case models.BuildCombined, "":
		if err = renderTo(render.TemplateCombined, models.ReportDaily, true); err == nil {
			var js []byte
			if js, err = repository.EncodeJSON(view); err == nil {
				err = write(fmt.Sprintf("%s-%s.json", date, models.ReportDaily), js)
			}
		}
	case models.BuildPremarket:
		err = renderTo(render.TemplatePremarket, models.ReportPremarket, true)
	case models.BuildOptions:
		err = renderTo(render.TemplateOptions, models.ReportOptions, false)
	case models.BuildBoth:
		if err = renderTo(render.TemplatePremarket, models.ReportPremarket, true); err == nil {
			err = renderTo(render.TemplateOptions, models.ReportOptions, false)
		}
	default:
		err = fmt.Errorf("unknown report kind %q", kind)
	}
	if err != nil {
		if b.metrics != nil {
			b.metrics.RecordError("render")
		}
		return written, err
	}

	if b.metrics != nil {
		b.metrics.RecordBuild(string(kind), time.Since(start).Seconds())
	}
	for _, p := range written {
		b.l.Info("report saved", applogger.String("path", p))
	}
	return written, nil
}

func (b *ReportBuilder) setupOutputDir() error {
	assets := filepath.Join(b.outputDir, assetsDir)
	if err := os.MkdirAll(assets, 0o755); err != nil {
		return errors.Join(models.ErrOutputDir, err)
	}
	css, err := b.renderer.Stylesheet()
	if err != nil {
		b.l.Warn("stylesheet unavailable", applogger.Error(err))
		return nil
	}
	if err := repository.WriteFileAtomic(filepath.Join(assets, render.Stylesheet), css); err != nil {
		return errors.Join(models.ErrOutputDir, err)
	}
	return nil
}
