package sources

import (
	"context"
	"sort"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

const (
	changesPerSymbol = 3
	maxRecentChanges = 20
)

// RatingsFetcher collects analyst price targets and recent grade changes
// for the watched symbols.
type RatingsFetcher struct {
	base
	api     QuoteAPI
	symbols []string
}

func NewRatingsFetcher(api QuoteAPI, symbols []string, l *logger.Logger, opts ...Option) *RatingsFetcher {
	return &RatingsFetcher{base: newBase(models.SnapshotRatings, l, opts), api: api, symbols: symbols}
}

func (f *RatingsFetcher) Source() models.SnapshotName { return models.SnapshotRatings }

func (f *RatingsFetcher) Fetch(ctx context.Context) (any, int, error) {
	now := f.clock()
	summaries := make([]models.RatingSummary, 0, len(f.symbols))
	changes := make([]models.RatingChange, 0)
	failed := symbolErrors{tried: len(f.symbols)}

	for _, symbol := range f.symbols {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		info, err := f.api.Info(ctx, symbol)
		if err != nil {
			f.log.Warn("rating lookup failed", logger.String("symbol", symbol), logger.Error(err))
			failed.add(symbol, err)
			continue
		}

		if mean := info.TargetMean(); mean != nil {
			price := info.CurrentPrice()
			var upside *float64
			if price != nil && *price != 0 {
				upside = util.Float(util.Round((*mean-*price) / *price * 100, 1))
			}
			summaries = append(summaries, models.RatingSummary{
				Symbol:         symbol,
				CurrentPrice:   price,
				TargetHigh:     info.TargetHigh(),
				TargetLow:      info.TargetLow(),
				TargetMean:     mean,
				UpsidePct:      upside,
				Recommendation: info.RecommendationKey(),
				NumAnalysts:    info.NumAnalysts(),
			})
		}

		history := info.GradeChanges()
		if len(history) > changesPerSymbol {
			history = history[:changesPerSymbol]
		}
		for _, g := range history {
			date := ""
			if g.EpochGradeDate > 0 {
				date = time.Unix(g.EpochGradeDate, 0).UTC().Format(util.DateLayout)
			}
			changes = append(changes, models.RatingChange{
				Symbol:    symbol,
				Company:   g.Firm,
				FromGrade: g.FromGrade,
				ToGrade:   g.ToGrade,
				Action:    g.Action,
				Date:      date,
			})
		}
	}
	if err := failed.err(); err != nil {
		return nil, 0, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return util.Deref(summaries[i].UpsidePct) > util.Deref(summaries[j].UpsidePct)
	})
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Date > changes[j].Date
	})
	if len(changes) > maxRecentChanges {
		changes = changes[:maxRecentChanges]
	}

	return models.RatingsSnapshot{
		Meta:          models.NewMeta(now),
		RatingsCount:  len(summaries),
		Ratings:       summaries,
		RecentChanges: changes,
	}, len(summaries), nil
}
