package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

const (
	maxSessionEarnings = 15
	maxAllEarnings     = 50
)

// EarningsFetcher lists today's earnings releases ordered by market cap.
type EarningsFetcher struct {
	base
	api    EarningsAPI
	quotes QuoteAPI
}

// NewEarningsFetcher creates the fetcher. quotes may be nil, in which case
// market caps are left empty.
func NewEarningsFetcher(api EarningsAPI, quotes QuoteAPI, l *logger.Logger, opts ...Option) *EarningsFetcher {
	return &EarningsFetcher{base: newBase(models.SnapshotEarnings, l, opts), api: api, quotes: quotes}
}

func (f *EarningsFetcher) Source() models.SnapshotName { return models.SnapshotEarnings }

func (f *EarningsFetcher) Fetch(ctx context.Context) (any, int, error) {
	now := f.clock()
	today := now.Format(util.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(util.DateLayout)

	releases, err := f.api.EarningsCalendar(ctx, today, tomorrow)
	if err != nil {
		return nil, 0, fmt.Errorf("earnings calendar: %w", err)
	}

	events := make([]models.EarningsEvent, 0, len(releases))
	for _, r := range releases {
		if r.Date != today {
			continue
		}
		events = append(events, models.EarningsEvent{
			Symbol:          r.Symbol,
			Date:            r.Date,
			Hour:            r.Hour,
			EPSEstimate:     r.EPSEstimate,
			EPSActual:       r.EPSActual,
			RevenueEstimate: r.RevenueEstimate,
			RevenueActual:   r.RevenueActual,
			MarketCap:       f.marketCap(ctx, r.Symbol),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return util.Deref(events[i].MarketCap) > util.Deref(events[j].MarketCap)
	})

	var before, after []models.EarningsEvent
	for _, e := range events {
		switch e.Hour {
		case models.SessionBeforeMarket:
			before = append(before, e)
		case models.SessionAfterMarket:
			after = append(after, e)
		}
	}

	return models.EarningsSnapshot{
		Meta:         models.NewMeta(now),
		TotalCount:   len(events),
		BeforeMarket: head(before, maxSessionEarnings),
		AfterMarket:  head(after, maxSessionEarnings),
		AllEarnings:  head(events, maxAllEarnings),
	}, len(events), nil
}

func (f *EarningsFetcher) marketCap(ctx context.Context, symbol string) *float64 {
	if f.quotes == nil || symbol == "" || ctx.Err() != nil {
		return nil
	}
	info, err := f.quotes.Info(ctx, symbol)
	if err != nil {
		f.log.Debug("market cap lookup failed", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}
	return info.MarketCap()
}

func head[T any](list []T, n int) []T {
	if list == nil {
		return []T{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}
