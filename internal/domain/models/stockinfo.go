package models

// StockInfo is the hover card data for one symbol. A failed lookup keeps
// only Symbol, Name and Error.
type StockInfo struct {
	Symbol             string   `json:"symbol"`
	Name               string   `json:"name"`
	CurrentPrice       *float64 `json:"current_price,omitempty"`
	PrevClose          *float64 `json:"prev_close,omitempty"`
	Change             *float64 `json:"change,omitempty"`
	ChangePct          *float64 `json:"change_pct,omitempty"`
	Volume             *float64 `json:"volume,omitempty"`
	VolumeFormatted    string   `json:"volume_formatted,omitempty"`
	MarketCap          *float64 `json:"market_cap,omitempty"`
	MarketCapFormatted string   `json:"market_cap_formatted,omitempty"`
	DayHigh            *float64 `json:"day_high,omitempty"`
	DayLow             *float64 `json:"day_low,omitempty"`
	FiftyTwoWeekHigh   *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow    *float64 `json:"fifty_two_week_low,omitempty"`
	PERatio            *float64 `json:"pe_ratio,omitempty"`
	Sector             string   `json:"sector,omitempty"`
	Industry           string   `json:"industry,omitempty"`
	Error              string   `json:"error,omitempty"`
}

type StockInfoSnapshot struct {
	Meta
	Count  int                  `json:"count"`
	Stocks map[string]StockInfo `json:"stocks"`
}
