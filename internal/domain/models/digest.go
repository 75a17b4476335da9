package models

// CoreNews is one tagged, bilingual headline summary.
type CoreNews struct {
	Tag       string `json:"tag"`
	TagEn     string `json:"tag_en"`
	Summary   string `json:"summary"`
	SummaryEn string `json:"summary_en"`
}

// FocusArea is one bilingual "watch this today" explanation.
type FocusArea struct {
	Title    string `json:"title"`
	TitleEn  string `json:"title_en"`
	Reason   string `json:"reason"`
	ReasonEn string `json:"reason_en"`
}

// Digest is the enrichment output persisted as analysis.json.
type Digest struct {
	CoreNews   []CoreNews  `json:"core_news"`
	FocusAreas []FocusArea `json:"focus_areas"`
}

// Empty reports whether the digest carries nothing to show.
func (d *Digest) Empty() bool {
	return d == nil || (len(d.CoreNews) == 0 && len(d.FocusAreas) == 0)
}

// DigestSource records which tier produced a report's digest.
type DigestSource string

const (
	DigestPersisted DigestSource = "persisted"
	DigestSupplied  DigestSource = "supplied"
	DigestFallback  DigestSource = "fallback"
)

// EnrichmentInput is the bounded slice of the day's data sent to the enricher.
type EnrichmentInput struct {
	News          []NewsItem     `json:"news"`
	RatingChanges []RatingChange `json:"rating_changes"`
	Overview      MarketOverview `json:"market_overview"`
	TopOptions    []string       `json:"top_options"`
	BeforeMarket  []string       `json:"before_market"`
	AfterMarket   []string       `json:"after_market"`
}
