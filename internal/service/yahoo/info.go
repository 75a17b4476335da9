package yahoo

// Info is a flattened view over a Summary with the same fallbacks a
// quote page uses: live fields first, then the regular-market ones.
type Info struct {
	s Summary
}

func first(vals ...Value) *float64 {
	for _, v := range vals {
		if v.Raw != nil {
			return v.Raw
		}
	}
	return nil
}

func (i Info) price() priceModule {
	if i.s.Price == nil {
		return priceModule{}
	}
	return *i.s.Price
}

func (i Info) detail() summaryDetailModule {
	if i.s.SummaryDetail == nil {
		return summaryDetailModule{}
	}
	return *i.s.SummaryDetail
}

func (i Info) financial() financialDataModule {
	if i.s.FinancialData == nil {
		return financialDataModule{}
	}
	return *i.s.FinancialData
}

func (i Info) Name() string {
	p := i.price()
	if p.ShortName != "" {
		return p.ShortName
	}
	return p.LongName
}

func (i Info) CurrentPrice() *float64 {
	return first(i.financial().CurrentPrice, i.price().RegularMarketPrice)
}

func (i Info) PreviousClose() *float64 {
	return first(i.detail().PreviousClose, i.price().RegularMarketPreviousClose)
}

func (i Info) Volume() *float64 {
	return first(i.detail().Volume, i.price().RegularMarketVolume)
}

func (i Info) MarketCap() *float64 {
	return first(i.detail().MarketCap, i.price().MarketCap)
}

func (i Info) DayHigh() *float64 {
	return first(i.detail().DayHigh, i.price().RegularMarketDayHigh)
}

func (i Info) DayLow() *float64 {
	return first(i.detail().DayLow, i.price().RegularMarketDayLow)
}

func (i Info) FiftyTwoWeekHigh() *float64 { return i.detail().FiftyTwoWeekHigh.Raw }
func (i Info) FiftyTwoWeekLow() *float64  { return i.detail().FiftyTwoWeekLow.Raw }
func (i Info) TrailingPE() *float64       { return i.detail().TrailingPE.Raw }

func (i Info) TargetMean() *float64 { return i.financial().TargetMeanPrice.Raw }
func (i Info) TargetHigh() *float64 { return i.financial().TargetHighPrice.Raw }
func (i Info) TargetLow() *float64  { return i.financial().TargetLowPrice.Raw }

func (i Info) RecommendationKey() string { return i.financial().RecommendationKey }

func (i Info) NumAnalysts() int {
	if v := i.financial().NumberOfAnalystOpinions.Raw; v != nil {
		return int(*v)
	}
	return 0
}

func (i Info) Sector() string {
	if i.s.AssetProfile == nil {
		return ""
	}
	return i.s.AssetProfile.Sector
}

func (i Info) Industry() string {
	if i.s.AssetProfile == nil {
		return ""
	}
	return i.s.AssetProfile.Industry
}

// GradeChanges returns the upgrade/downgrade history, newest first.
func (i Info) GradeChanges() []GradeChange {
	if i.s.UpgradeDowngradeHistory == nil {
		return nil
	}
	return i.s.UpgradeDowngradeHistory.History
}

// NewInfo wraps an already decoded Summary.
func NewInfo(s Summary) Info {
	return Info{s: s}
}
