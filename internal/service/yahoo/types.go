package yahoo

// Value is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper. Missing
// numbers come back as {} so Raw stays nil.
type Value struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt,omitempty"`
}

type priceModule struct {
	ShortName                  string `json:"shortName"`
	LongName                   string `json:"longName"`
	RegularMarketPrice         Value  `json:"regularMarketPrice"`
	RegularMarketPreviousClose Value  `json:"regularMarketPreviousClose"`
	RegularMarketVolume        Value  `json:"regularMarketVolume"`
	RegularMarketDayHigh       Value  `json:"regularMarketDayHigh"`
	RegularMarketDayLow        Value  `json:"regularMarketDayLow"`
	MarketCap                  Value  `json:"marketCap"`
}

type summaryDetailModule struct {
	PreviousClose    Value `json:"previousClose"`
	Volume           Value `json:"volume"`
	MarketCap        Value `json:"marketCap"`
	DayHigh          Value `json:"dayHigh"`
	DayLow           Value `json:"dayLow"`
	FiftyTwoWeekHigh Value `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  Value `json:"fiftyTwoWeekLow"`
	TrailingPE       Value `json:"trailingPE"`
}

type financialDataModule struct {
	CurrentPrice            Value  `json:"currentPrice"`
	TargetHighPrice         Value  `json:"targetHighPrice"`
	TargetLowPrice          Value  `json:"targetLowPrice"`
	TargetMeanPrice         Value  `json:"targetMeanPrice"`
	RecommendationKey       string `json:"recommendationKey"`
	NumberOfAnalystOpinions Value  `json:"numberOfAnalystOpinions"`
}

type assetProfileModule struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// GradeChange is one entry of upgradeDowngradeHistory, newest first.
type GradeChange struct {
	EpochGradeDate int64  `json:"epochGradeDate"`
	Firm           string `json:"firm"`
	ToGrade        string `json:"toGrade"`
	FromGrade      string `json:"fromGrade"`
	Action         string `json:"action"`
}

type upgradeDowngradeModule struct {
	History []GradeChange `json:"history"`
}

// Summary is the subset of quoteSummary modules this project reads.
type Summary struct {
	Price                   *priceModule            `json:"price,omitempty"`
	SummaryDetail           *summaryDetailModule    `json:"summaryDetail,omitempty"`
	FinancialData           *financialDataModule    `json:"financialData,omitempty"`
	AssetProfile            *assetProfileModule     `json:"assetProfile,omitempty"`
	UpgradeDowngradeHistory *upgradeDowngradeModule `json:"upgradeDowngradeHistory,omitempty"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []Summary  `json:"result"`
		Error  *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Contract is one option contract. Volume is absent for untraded strikes.
type Contract struct {
	ContractSymbol string   `json:"contractSymbol"`
	Strike         float64  `json:"strike"`
	Volume         *int64   `json:"volume"`
	OpenInterest   *int64   `json:"openInterest"`
	LastPrice      *float64 `json:"lastPrice"`
}

// Chain is the calls and puts for one expiration.
type Chain struct {
	ExpirationDate int64      `json:"expirationDate"`
	Calls          []Contract `json:"calls"`
	Puts           []Contract `json:"puts"`
}

// OptionChain is the nearest-expiry chain plus the list of all expirations.
type OptionChain struct {
	UnderlyingSymbol string  `json:"underlyingSymbol"`
	ExpirationDates  []int64 `json:"expirationDates"`
	Options          []Chain `json:"options"`
}

type optionsResponse struct {
	OptionChain struct {
		Result []OptionChain `json:"result"`
		Error  *yahooError   `json:"error"`
	} `json:"optionChain"`
}
