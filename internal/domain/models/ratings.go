package models

// RatingSummary is the consensus analyst view for one symbol.
type RatingSummary struct {
	Symbol         string   `json:"symbol"`
	CurrentPrice   *float64 `json:"current_price"`
	TargetHigh     *float64 `json:"target_high"`
	TargetLow      *float64 `json:"target_low"`
	TargetMean     *float64 `json:"target_mean"`
	UpsidePct      *float64 `json:"upside_pct"`
	Recommendation string   `json:"recommendation"`
	NumAnalysts    int      `json:"num_analysts"`
}

// RatingChange is a single firm's upgrade, downgrade or reiteration.
type RatingChange struct {
	Symbol    string `json:"symbol"`
	Company   string `json:"company"`
	FromGrade string `json:"from_grade"`
	ToGrade   string `json:"to_grade"`
	Action    string `json:"action"`
	Date      string `json:"date"`
}

type RatingsSnapshot struct {
	Meta
	RatingsCount  int             `json:"ratings_count"`
	Ratings       []RatingSummary `json:"ratings"`
	RecentChanges []RatingChange  `json:"recent_changes"`
}
