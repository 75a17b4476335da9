package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/service/yahoo"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

const topStockCount = 25

// OptionsFetcher summarizes nearest-expiry options volume for the index
// ETFs and a universe of actively traded stocks.
type OptionsFetcher struct {
	base
	api     ChainAPI
	indexes []string
	stocks  []string
}

func NewOptionsFetcher(api ChainAPI, indexes, stocks []string, l *logger.Logger, opts ...Option) *OptionsFetcher {
	return &OptionsFetcher{
		base:    newBase(models.SnapshotOptions, l, opts),
		api:     api,
		indexes: indexes,
		stocks:  stocks,
	}
}

func (f *OptionsFetcher) Source() models.SnapshotName { return models.SnapshotOptions }

func (f *OptionsFetcher) Fetch(ctx context.Context) (any, int, error) {
	now := f.clock()
	failed := symbolErrors{tried: len(f.indexes) + len(f.stocks)}

	index, err := f.collect(ctx, f.indexes, &failed)
	if err != nil {
		return nil, 0, err
	}
	stocks, err := f.collect(ctx, f.stocks, &failed)
	if err != nil {
		return nil, 0, err
	}
	if err := failed.err(); err != nil {
		return nil, 0, err
	}

	byVolume := func(list []models.OptionsEntry) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].TotalVolume > list[j].TotalVolume
		})
	}
	byVolume(index)
	byVolume(stocks)

	overview := Overview(stocks)
	top := stocks
	if len(top) > topStockCount {
		top = top[:topStockCount]
	}

	return models.OptionsSnapshot{
		Meta:           models.NewMeta(now),
		MarketOverview: overview,
		IndexOptions:   index,
		TopStocks:      top,
	}, len(index) + len(stocks), nil
}

func (f *OptionsFetcher) collect(ctx context.Context, symbols []string, failed *symbolErrors) ([]models.OptionsEntry, error) {
	out := make([]models.OptionsEntry, 0, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chain, err := f.api.NearestChain(ctx, symbol)
		if err != nil {
			f.log.Warn("option chain failed", logger.String("symbol", symbol), logger.Error(err))
			failed.add(symbol, err)
			continue
		}
		e := SummarizeChain(symbol, chain)
		f.log.Debug("option chain", logger.String("symbol", symbol), logger.Int64("total_volume", e.TotalVolume))
		out = append(out, e)
	}
	return out, nil
}

// SummarizeChain reduces one chain to volume totals and the most traded
// call and put strikes. Contracts without a volume count as zero and are
// never the hottest.
func SummarizeChain(symbol string, chain *yahoo.Chain) models.OptionsEntry {
	callVol, hotCall := sideVolume(chain.Calls, "C")
	putVol, hotPut := sideVolume(chain.Puts, "P")

	e := models.OptionsEntry{
		Symbol:        symbol,
		CallVolume:    callVol,
		PutVolume:     putVol,
		TotalVolume:   callVol + putVol,
		CPRatio:       util.SafeRatio(float64(callVol), float64(putVol), 2),
		HottestCall:   hotCall,
		HottestPut:    hotPut,
		HottestOption: strings.Trim(hotCall+"/"+hotPut, "/"),
	}
	if chain.ExpirationDate > 0 {
		e.Expiry = time.Unix(chain.ExpirationDate, 0).UTC().Format(util.DateLayout)
	}
	return e
}

func sideVolume(contracts []yahoo.Contract, prefix string) (int64, string) {
	var (
		total int64
		best  *yahoo.Contract
	)
	for i := range contracts {
		c := &contracts[i]
		if c.Volume == nil {
			continue
		}
		total += *c.Volume
		if best == nil || *c.Volume > *best.Volume {
			best = c
		}
	}
	if best == nil {
		return total, ""
	}
	return total, fmt.Sprintf("%s%.0f", prefix, best.Strike)
}

// Overview aggregates stock options volume into the market-wide put/call
// ratio and its sentiment band.
func Overview(stocks []models.OptionsEntry) models.MarketOverview {
	var ov models.MarketOverview
	for _, s := range stocks {
		ov.TotalCallVolume += s.CallVolume
		ov.TotalPutVolume += s.PutVolume
	}
	ov.TotalVolume = ov.TotalCallVolume + ov.TotalPutVolume
	ov.PCRatio = util.SafeRatio(float64(ov.TotalPutVolume), float64(ov.TotalCallVolume), 2)
	ov.Sentiment = models.ClassifySentiment(ov.PCRatio).Label
	return ov
}
