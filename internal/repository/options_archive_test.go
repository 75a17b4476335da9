package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

func TestStockRowsInsert(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	now := day.Add(time.Hour)
	top := []models.OptionsEntry{
		{Symbol: "NVDA", CallVolume: 10, PutVolume: 5, TotalVolume: 15, HottestOption: "C900/P850", Expiry: "2024-05-03"},
		{Symbol: ""},
		{Symbol: "TSLA", CallVolume: 3, PutVolume: 4, TotalVolume: 7},
	}

	q, args := stockRowsInsert("dailyfin", day, now, top)
	assert.True(t, strings.HasPrefix(q, "INSERT INTO dailyfin.options_top_stocks_daily"))
	assert.Equal(t, 2, strings.Count(q, "(?, ?, ?, ?, ?, ?, ?, ?, ?)"))
	assert.Len(t, args, 18)
	assert.Equal(t, uint16(1), args[1])
	assert.Equal(t, "NVDA", args[2])
	assert.Equal(t, uint16(3), args[10])
	assert.Equal(t, "TSLA", args[11])
}

func TestStockRowsInsertEmpty(t *testing.T) {
	q, args := stockRowsInsert("dailyfin", time.Now(), time.Now(), nil)
	assert.Empty(t, q)
	assert.Nil(t, args)
}

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements("dailyfin")
	assert.Len(t, stmts, 3)
	assert.Contains(t, stmts[1], "dailyfin.options_overview_daily")
	assert.Contains(t, stmts[2], "ORDER BY (date, symbol)")
}
