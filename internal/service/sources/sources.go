// Package sources holds the fetchers that turn third-party market data into
// snapshot documents. Each fetcher is stateless: one Fetch call produces one
// complete document stamped with the run's date and fetch time.
package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/service/finnhub"
	"github.com/Kiwitwitter/daily-finance/internal/service/yahoo"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
)

// NewsAPI is the subset of the Finnhub client the news fetcher uses.
type NewsAPI interface {
	GeneralNews(ctx context.Context, category string) ([]finnhub.Article, error)
}

// EarningsAPI is the subset of the Finnhub client the earnings fetcher uses.
type EarningsAPI interface {
	EarningsCalendar(ctx context.Context, from, to string) ([]finnhub.EarningsRelease, error)
}

// QuoteAPI looks up quote summaries.
type QuoteAPI interface {
	Info(ctx context.Context, symbol string) (yahoo.Info, error)
}

// ChainAPI looks up nearest-expiry option chains.
type ChainAPI interface {
	NearestChain(ctx context.Context, symbol string) (*yahoo.Chain, error)
}

// CalendarAPI lists the economic events for a date.
type CalendarAPI interface {
	Events(ctx context.Context, date string) ([]models.CalendarEvent, error)
}

// ErrAllFailed is returned when every symbol of a per-symbol fetch failed.
var ErrAllFailed = errors.New("all symbols failed")

// Option configures the shared fetcher settings.
type Option func(*base)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

// WithLocation sets the zone dates and timestamps are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(b *base) {
		if loc != nil {
			b.loc = loc
		}
	}
}

type base struct {
	now func() time.Time
	loc *time.Location
	log *logger.Logger
}

func newBase(source models.SnapshotName, l *logger.Logger, opts []Option) base {
	if l == nil {
		l = logger.Nop()
	}
	b := base{
		now: time.Now,
		loc: time.Local,
		log: l.Component("fetch." + source.String()),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) clock() time.Time {
	return b.now().In(b.loc)
}

// symbolErrors collects per-symbol failures so a fetch fails only when
// nothing succeeded.
type symbolErrors struct {
	tried int
	errs  []error
}

func (s *symbolErrors) add(symbol string, err error) {
	s.errs = append(s.errs, fmt.Errorf("%s: %w", symbol, err))
}

func (s *symbolErrors) err() error {
	if s.tried == 0 || len(s.errs) < s.tried {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAllFailed, errors.Join(s.errs...))
}
