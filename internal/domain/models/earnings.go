package models

const (
	SessionBeforeMarket = "bmo"
	SessionAfterMarket  = "amc"
)

type EarningsEvent struct {
	Symbol          string   `json:"symbol"`
	Date            string   `json:"date"`
	Hour            string   `json:"hour"`
	EPSEstimate     *float64 `json:"eps_estimate"`
	EPSActual       *float64 `json:"eps_actual"`
	RevenueEstimate *float64 `json:"revenue_estimate"`
	RevenueActual   *float64 `json:"revenue_actual"`
	MarketCap       *float64 `json:"market_cap"`
}

type EarningsSnapshot struct {
	Meta
	TotalCount   int             `json:"total_count"`
	BeforeMarket []EarningsEvent `json:"before_market"`
	AfterMarket  []EarningsEvent `json:"after_market"`
	AllEarnings  []EarningsEvent `json:"all_earnings"`
}
