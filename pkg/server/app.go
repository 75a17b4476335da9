package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kiwitwitter/daily-finance/internal/usecase"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/scheduler"
)

// Pipeline is the fetch, analyze and build chain. It needs the external
// API credentials, so it is only wired for commands that talk to sources.
type Pipeline struct {
	Collector *usecase.SnapshotCollector
	Analyzer  *usecase.Analyzer
	Job       *usecase.DailyJob
}

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	Builder    *usecase.ReportBuilder
	Index      *usecase.ReportIndex
	Pipeline   *Pipeline
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	builder *usecase.ReportBuilder,
	index *usecase.ReportIndex,
	httpServer *xhttp.Server,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		logger:     l.Component("app"),
		Builder:    builder,
		Index:      index,
		httpServer: httpServer,
	}
}

// WithPipeline attaches the source pipeline.
func (a *App) WithPipeline(p *Pipeline) *App {
	a.Pipeline = p
	return a
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Serve runs the presentation server, plus the daily job on its cron
// schedule when a pipeline is attached. It blocks until ctx is done or an
// interrupt arrives.
func (a *App) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sched *scheduler.Scheduler
	if a.Pipeline != nil && a.cfg.Scheduler.Cron != "" {
		sched = scheduler.New(ctx, a.cfg.Location(), a.logger)
		if err := sched.AddJob(a.cfg.Scheduler.Cron, a.Pipeline.Job); err != nil {
			return fmt.Errorf("schedule daily job: %w", err)
		}
		sched.Start()
		if next, ok := sched.Next(); ok {
			a.logger.Info("next daily run", applogger.String("at", next.Format("2006-01-02 15:04 MST")))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("report server started",
		applogger.String("addr", a.httpServer.Addr()),
		applogger.String("output_dir", a.Index.OutputDir()),
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown(sched)
}

// shutdown gracefully stops the scheduler and the HTTP server.
func (a *App) shutdown(sched *scheduler.Scheduler) error {
	a.logger.Info("shutting down...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	var errs []error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
