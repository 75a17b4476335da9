package sources

import (
	"context"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

// StockInfoFetcher builds the hover-card quotes for report symbols.
type StockInfoFetcher struct {
	base
	api     QuoteAPI
	symbols []string
}

func NewStockInfoFetcher(api QuoteAPI, symbols []string, l *logger.Logger, opts ...Option) *StockInfoFetcher {
	return &StockInfoFetcher{base: newBase(models.SnapshotStockInfo, l, opts), api: api, symbols: symbols}
}

func (f *StockInfoFetcher) Source() models.SnapshotName { return models.SnapshotStockInfo }

func (f *StockInfoFetcher) Fetch(ctx context.Context) (any, int, error) {
	now := f.clock()
	stocks := make(map[string]models.StockInfo, len(f.symbols))
	failed := symbolErrors{tried: len(f.symbols)}

	for _, symbol := range f.symbols {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		info, err := f.api.Info(ctx, symbol)
		if err != nil {
			f.log.Warn("quote lookup failed", logger.String("symbol", symbol), logger.Error(err))
			failed.add(symbol, err)
			stocks[symbol] = models.StockInfo{Symbol: symbol, Name: symbol, Error: err.Error()}
			continue
		}
		stocks[symbol] = quoteCard(symbol, info)
	}
	if err := failed.err(); err != nil {
		return nil, 0, err
	}

	return models.StockInfoSnapshot{
		Meta:   models.NewMeta(now),
		Count:  len(stocks),
		Stocks: stocks,
	}, len(stocks) - len(failed.errs), nil
}

type quoteInfo interface {
	Name() string
	CurrentPrice() *float64
	PreviousClose() *float64
	Volume() *float64
	MarketCap() *float64
	DayHigh() *float64
	DayLow() *float64
	FiftyTwoWeekHigh() *float64
	FiftyTwoWeekLow() *float64
	TrailingPE() *float64
	Sector() string
	Industry() string
}

func quoteCard(symbol string, info quoteInfo) models.StockInfo {
	name := info.Name()
	if name == "" {
		name = symbol
	}
	s := models.StockInfo{
		Symbol:             symbol,
		Name:               name,
		CurrentPrice:       info.CurrentPrice(),
		PrevClose:          info.PreviousClose(),
		Volume:             info.Volume(),
		VolumeFormatted:    util.FormatNumber(info.Volume()),
		MarketCap:          info.MarketCap(),
		MarketCapFormatted: util.FormatNumber(info.MarketCap()),
		DayHigh:            info.DayHigh(),
		DayLow:             info.DayLow(),
		FiftyTwoWeekHigh:   info.FiftyTwoWeekHigh(),
		FiftyTwoWeekLow:    info.FiftyTwoWeekLow(),
		PERatio:            info.TrailingPE(),
		Sector:             info.Sector(),
		Industry:           info.Industry(),
	}
	if s.CurrentPrice != nil && s.PrevClose != nil && *s.PrevClose != 0 {
		change := *s.CurrentPrice - *s.PrevClose
		s.Change = util.Float(util.Round(change, 2))
		s.ChangePct = util.Float(util.Round(change / *s.PrevClose * 100, 2))
	}
	return s
}
