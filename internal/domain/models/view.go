package models

// ReportView is the denormalized bundle a renderer consumes for one date.
type ReportView struct {
	Date                string `json:"date"`
	PremarketUpdateTime string `json:"premarket_update_time"`
	OptionsUpdateTime   string `json:"options_update_time"`

	CalendarEvents []CalendarRow         `json:"calendar_events"`
	Earnings       *EarningsView         `json:"earnings"`
	RatingChanges  []RatingGroup         `json:"rating_changes"`
	StockInfo      map[string]StockInfo  `json:"stock_info"`
	CoreNews       []CoreNews            `json:"core_news"`
	FocusAreas     []FocusArea           `json:"focus_areas"`
	DigestSource   DigestSource          `json:"digest_source"`
	MarketOverview *OverviewView         `json:"market_overview"`
	IndexOptions   []OptionsRow          `json:"index_options"`
	TopStocks      []OptionsRow          `json:"top_25_stocks"`
	Sources        map[SnapshotName]bool `json:"sources"`
}

// CalendarRow is a calendar event reduced to its clock time.
type CalendarRow struct {
	Time     string  `json:"time"`
	Event    string  `json:"event"`
	Actual   *string `json:"actual"`
	Estimate *string `json:"estimate"`
	Prev     *string `json:"prev"`
}

type EarningsView struct {
	BeforeMarket []EarningsEvent `json:"before_market"`
	AfterMarket  []EarningsEvent `json:"after_market"`
}

// RatingGroup is every recent change for one symbol with its consensus
// targets merged in. Target fields are nil when no summary exists.
type RatingGroup struct {
	Symbol         string       `json:"symbol"`
	TargetMean     *float64     `json:"target_mean"`
	UpsidePct      *float64     `json:"upside_pct"`
	CurrentPrice   *float64     `json:"current_price"`
	Recommendation string       `json:"recommendation,omitempty"`
	Firms          []FirmChange `json:"firms"`
}

type FirmChange struct {
	Company   string `json:"company"`
	Action    string `json:"action"`
	FromGrade string `json:"from_grade"`
	ToGrade   string `json:"to_grade"`
	Date      string `json:"date"`
}

// OptionsRow is an OptionsEntry with its derived split and ratio.
type OptionsRow struct {
	OptionsEntry
	CallPct int     `json:"call_pct"`
	PutPct  int     `json:"put_pct"`
	PCRatio float64 `json:"pc_ratio"`
}

type OverviewView struct {
	MarketOverview
	CallPct        int    `json:"call_pct"`
	PutPct         int    `json:"put_pct"`
	SentimentEn    string `json:"sentiment_en"`
	SentimentClass string `json:"sentiment_class"`
}
