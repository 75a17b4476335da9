package models

// OptionsEntry is the nearest-expiry options activity for one symbol.
type OptionsEntry struct {
	Symbol        string  `json:"symbol"`
	CallVolume    int64   `json:"call_volume"`
	PutVolume     int64   `json:"put_volume"`
	TotalVolume   int64   `json:"total_volume"`
	CPRatio       float64 `json:"cp_ratio"`
	HottestOption string  `json:"hottest_option"`
	HottestCall   string  `json:"hottest_call,omitempty"`
	HottestPut    string  `json:"hottest_put,omitempty"`
	Expiry        string  `json:"expiry"`
}

// MarketOverview aggregates options volume over the stock universe.
type MarketOverview struct {
	TotalVolume     int64   `json:"total_volume"`
	TotalCallVolume int64   `json:"total_call_volume"`
	TotalPutVolume  int64   `json:"total_put_volume"`
	PCRatio         float64 `json:"pc_ratio"`
	Sentiment       string  `json:"sentiment"`
}

type OptionsSnapshot struct {
	Meta
	MarketOverview MarketOverview `json:"market_overview"`
	IndexOptions   []OptionsEntry `json:"index_options"`
	TopStocks      []OptionsEntry `json:"top_25_stocks"`
}

// Sentiment is one of five put/call ratio bands.
type Sentiment struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	LabelEn string `json:"label_en"`
	Class   string `json:"class"`
}

var sentimentBands = []struct {
	upper float64
	s     Sentiment
}{
	{0.7, Sentiment{Key: "extremely_bullish", Label: "极度看涨", LabelEn: "Extremely Bullish", Class: "bullish"}},
	{0.9, Sentiment{Key: "leaning_bullish", Label: "偏向看涨", LabelEn: "Leaning Bullish", Class: "bullish"}},
	{1.1, Sentiment{Key: "neutral", Label: "中性", LabelEn: "Neutral", Class: ""}},
	{1.3, Sentiment{Key: "leaning_bearish", Label: "偏向看跌", LabelEn: "Leaning Bearish", Class: "bearish"}},
}

var extremelyBearish = Sentiment{Key: "extremely_bearish", Label: "极度看跌", LabelEn: "Extremely Bearish", Class: "bearish"}

// ClassifySentiment maps a put/call ratio onto its band. Bands are
// half-open [lo, hi): a ratio equal to a breakpoint falls in the band above it.
func ClassifySentiment(pcRatio float64) Sentiment {
	for _, b := range sentimentBands {
		if pcRatio < b.upper {
			return b.s
		}
	}
	return extremelyBearish
}
