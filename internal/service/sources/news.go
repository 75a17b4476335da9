package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

const (
	newsCategory = "general"
	maxNews      = 50
	newsTimeFmt  = "2006-01-02 15:04"
)

// NewsFetcher stores the latest general market headlines.
type NewsFetcher struct {
	base
	api NewsAPI
}

func NewNewsFetcher(api NewsAPI, l *logger.Logger, opts ...Option) *NewsFetcher {
	return &NewsFetcher{base: newBase(models.SnapshotNews, l, opts), api: api}
}

func (f *NewsFetcher) Source() models.SnapshotName { return models.SnapshotNews }

func (f *NewsFetcher) Fetch(ctx context.Context) (any, int, error) {
	now := f.clock()
	articles, err := f.api.GeneralNews(ctx, newsCategory)
	if err != nil {
		return nil, 0, fmt.Errorf("general news: %w", err)
	}
	if len(articles) > maxNews {
		articles = articles[:maxNews]
	}

	items := make([]models.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, models.NewsItem{
			ID:       a.ID,
			Headline: a.Headline,
			Summary:  a.Summary,
			Source:   a.Source,
			URL:      a.URL,
			Datetime: time.Unix(a.Datetime, 0).In(f.loc).Format(newsTimeFmt),
			Category: a.Category,
			Related:  models.Symbols(util.SplitSymbols(a.Related)),
		})
	}

	f.log.Debug("news fetched", logger.Int("count", len(items)))
	return models.NewsSnapshot{
		Meta:      models.NewMeta(now),
		NewsCount: len(items),
		News:      items,
	}, len(items), nil
}
