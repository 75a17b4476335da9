package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f JobFunc) Name() string                  { return f.JobName }
func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// Scheduler runs jobs on standard five-field cron schedules in a fixed
// time zone. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	l    *applogger.Logger
}

// New creates a scheduler evaluating schedules in loc.
func New(ctx context.Context, loc *time.Location, l *applogger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx: ctx,
		l:   l.Component("scheduler"),
	}
}

// AddJob registers job on schedule, e.g. "30 8 * * 1-5" for 08:30 on weekdays.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		s.l.Info("job started", applogger.String("job", job.Name()))
		if err := job.Run(s.ctx); err != nil {
			s.l.Error("job failed", applogger.String("job", job.Name()), applogger.Error(err))
			return
		}
		s.l.Info("job completed",
			applogger.String("job", job.Name()),
			applogger.Duration("elapsed_ms", time.Since(start)),
		)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	s.l.Info("job registered", applogger.String("job", job.Name()), applogger.String("schedule", schedule))
	return nil
}

// Next reports the next activation time of the first registered job.
func (s *Scheduler) Next() (time.Time, bool) {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[0].Next, true
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started")
}

// Stop prevents new runs and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.l.Info("scheduler stopped")
}

// Validate parses schedule without registering it.
func Validate(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return nil
}
