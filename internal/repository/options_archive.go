package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	pkgch "github.com/Kiwitwitter/daily-finance/pkg/clickhouse"
)

const (
	overviewTable = "options_overview_daily"
	stocksTable   = "options_top_stocks_daily"
)

// ClickHouseOptionsArchive stores one row per day for the market overview
// and one row per ranked stock.
type ClickHouseOptionsArchive struct {
	ch *pkgch.Client
}

// NewClickHouseOptionsArchive creates the archive over an open client.
func NewClickHouseOptionsArchive(ch *pkgch.Client) repository.OptionsArchive {
	return &ClickHouseOptionsArchive{ch: ch}
}

// SchemaStatements returns the DDL for the archive tables. ReplacingMergeTree
// keyed on date makes re-runs for the same day collapse into one row.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	date Date,
	total_volume UInt64,
	total_call_volume UInt64,
	total_put_volume UInt64,
	pc_ratio Float64,
	sentiment String,
	inserted_at DateTime
) ENGINE = ReplacingMergeTree(inserted_at) ORDER BY date`, database, overviewTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	date Date,
	rank UInt16,
	symbol String,
	call_volume UInt64,
	put_volume UInt64,
	total_volume UInt64,
	hottest_option String,
	expiry String,
	inserted_at DateTime
) ENGINE = ReplacingMergeTree(inserted_at) ORDER BY (date, symbol)`, database, stocksTable),
	}
}

func (a *ClickHouseOptionsArchive) Init(ctx context.Context) error {
	return a.ch.InitSchema(ctx, SchemaStatements(a.ch.Database()))
}

func (a *ClickHouseOptionsArchive) StoreOverview(ctx context.Context, date string, ov models.MarketOverview, top []models.OptionsEntry) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}
	now := time.Now().UTC()
	db := a.ch.DB()

	q := fmt.Sprintf("INSERT INTO %s.%s (date, total_volume, total_call_volume, total_put_volume, pc_ratio, sentiment, inserted_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ch.Database(), overviewTable)
	if _, err := db.ExecContext(ctx, q,
		day,
		uint64(max(ov.TotalVolume, 0)),
		uint64(max(ov.TotalCallVolume, 0)),
		uint64(max(ov.TotalPutVolume, 0)),
		ov.PCRatio,
		ov.Sentiment,
		now,
	); err != nil {
		return fmt.Errorf("insert overview: %w", err)
	}

	q, args := stockRowsInsert(a.ch.Database(), day, now, top)
	if q == "" {
		return nil
	}
	if _, err := db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert top stocks: %w", err)
	}
	return nil
}

// stockRowsInsert builds one multi-row INSERT for the ranked stocks.
func stockRowsInsert(database string, day, now time.Time, top []models.OptionsEntry) (string, []interface{}) {
	values := make([]string, 0, len(top))
	args := make([]interface{}, 0, len(top)*9)
	for i, e := range top {
		if e.Symbol == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			day,
			uint16(i+1),
			e.Symbol,
			uint64(max(e.CallVolume, 0)),
			uint64(max(e.PutVolume, 0)),
			uint64(max(e.TotalVolume, 0)),
			e.HottestOption,
			e.Expiry,
			now,
		)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s.%s (date, rank, symbol, call_volume, put_volume, total_volume, hottest_option, expiry, inserted_at) VALUES %s",
		database, stocksTable, strings.Join(values, ","))
	return q, args
}

func (a *ClickHouseOptionsArchive) Health(ctx context.Context) error {
	return a.ch.Health(ctx)
}

func (a *ClickHouseOptionsArchive) Close() error {
	return a.ch.Close()
}
