package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

func sampleView() *models.ReportView {
	ov := models.OverviewView{
		MarketOverview: models.MarketOverview{TotalVolume: 1234567, TotalCallVolume: 700000, TotalPutVolume: 534567, PCRatio: 0.76, Sentiment: "偏向看涨"},
		CallPct:        57,
		PutPct:         43,
		SentimentEn:    "Leaning Bullish",
		SentimentClass: "bullish",
	}
	return &models.ReportView{
		Date:                "2024-05-01",
		PremarketUpdateTime: "2024/05/01 08:00 EDT",
		OptionsUpdateTime:   "--",
		CalendarEvents:      []models.CalendarRow{{Time: "08:30", Event: "Nonfarm Payrolls"}},
		Earnings: &models.EarningsView{
			BeforeMarket: []models.EarningsEvent{{Symbol: "KO", MarketCap: util.Float(2.6e11)}},
			AfterMarket:  []models.EarningsEvent{},
		},
		RatingChanges: []models.RatingGroup{{
			Symbol:    "AAPL",
			UpsidePct: util.Float(12.5),
			Firms:     []models.FirmChange{{Company: "Morgan Stanley", Action: "up", ToGrade: "Overweight"}},
		}},
		StockInfo:      map[string]models.StockInfo{"AAPL": {Symbol: "AAPL", Name: "Apple <Inc>"}},
		CoreNews:       []models.CoreNews{{Tag: "科技", TagEn: "Tech", Summary: "芯片股走强", SummaryEn: "Chips rally"}},
		FocusAreas:     []models.FocusArea{},
		MarketOverview: &ov,
		IndexOptions:   []models.OptionsRow{{OptionsEntry: models.OptionsEntry{Symbol: "SPY", TotalVolume: 10}, CallPct: 60, PutPct: 40}},
		TopStocks:      []models.OptionsRow{},
	}
}

func TestRenderCombined(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	out, err := r.Render(TemplateCombined, Page{ReportView: sampleView(), Kind: models.ReportDaily})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "2024-05-01")
	assert.Contains(t, html, "Nonfarm Payrolls")
	assert.Contains(t, html, "Morgan Stanley")
	assert.Contains(t, html, "12.5%")
	assert.Contains(t, html, "1,234,567")
	assert.Contains(t, html, "260.00B")
	assert.Contains(t, html, "Apple &lt;Inc&gt;")
	assert.Contains(t, html, `data-en="Chips rally"`)
	assert.Contains(t, html, "sentiment bullish")
}

func TestRenderEmptyView(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	v := &models.ReportView{Date: "2024-05-01"}
	for _, name := range []string{TemplateCombined, TemplatePremarket, TemplateOptions} {
		out, err := r.Render(name, Page{ReportView: v})
		require.NoError(t, err, name)
		assert.Contains(t, string(out), "暂无数据", name)
	}
}

func TestRenderOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "options.html"), []byte(`custom {{.Date}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles.css"), []byte(`body{}`), 0o644))

	r, err := New(dir)
	require.NoError(t, err)

	out, err := r.Render(TemplateOptions, Page{ReportView: &models.ReportView{Date: "2024-05-01"}})
	require.NoError(t, err)
	assert.Equal(t, "custom 2024-05-01", string(out))

	css, err := r.Stylesheet()
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
}

func TestEmbeddedStylesheet(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	css, err := r.Stylesheet()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(css), "--primary-color"))
}

func TestRenderReportsPage(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	entries := []models.ReportEntry{
		{Date: "2024-05-02", Type: "daily", TypeDisplay: "综合日报", URL: "/report/2024-05-02?report_type=daily"},
		{Date: "2024-05-01", Type: "premarket", TypeDisplay: "盘前报告", URL: "/report/2024-05-01?report_type=premarket"},
		{Date: "2024-05-01", Type: "options", TypeDisplay: "期权日报", URL: "/report/2024-05-01?report_type=options"},
	}
	groups := GroupByDate(entries)
	require.Len(t, groups, 2)
	assert.Len(t, groups[1].Reports, 2)

	out, err := r.Render(TemplateReports, ReportsPage{Groups: groups})
	require.NoError(t, err)
	assert.Contains(t, string(out), "/report/2024-05-01?report_type=options")

	out, err = r.Render(TemplateReports, ReportsPage{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "暂无历史报告")
}

func TestFormatComma(t *testing.T) {
	assert.Equal(t, "0", formatComma(0))
	assert.Equal(t, "999", formatComma(999))
	assert.Equal(t, "1,000", formatComma(1000))
	assert.Equal(t, "-12,345,678", formatComma(-12345678))
}
