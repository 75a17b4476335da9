package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	domrepo "github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/internal/repository"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
	applogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

// Inputs is the set of snapshots one report is built from.
type Inputs struct {
	News      models.Snapshot[models.NewsSnapshot]
	Ratings   models.Snapshot[models.RatingsSnapshot]
	Options   models.Snapshot[models.OptionsSnapshot]
	Earnings  models.Snapshot[models.EarningsSnapshot]
	Calendar  models.Snapshot[models.CalendarSnapshot]
	StockInfo models.Snapshot[models.StockInfoSnapshot]
	Analysis  models.Snapshot[models.Digest]
}

// ReportAggregator merges independently fetched snapshots into one ReportView.
type ReportAggregator struct {
	store  domrepo.SnapshotStore
	limits config.Limits
	loc    *time.Location
	l      *applogger.Logger
}

func NewReportAggregator(store domrepo.SnapshotStore, limits config.Limits, loc *time.Location, l *applogger.Logger) *ReportAggregator {
	if loc == nil {
		loc = time.UTC
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &ReportAggregator{store: store, limits: limits, loc: loc, l: l.Component("aggregator")}
}

// Load reads every snapshot. Missing or unparsable documents come back as
// not Present; those and any skipped per-entry values are logged.
func (a *ReportAggregator) Load(ctx context.Context) Inputs {
	in := Inputs{
		News:      repository.LoadSnapshot[models.NewsSnapshot](ctx, a.store, models.SnapshotNews),
		Ratings:   repository.LoadSnapshot[models.RatingsSnapshot](ctx, a.store, models.SnapshotRatings),
		Options:   repository.LoadSnapshot[models.OptionsSnapshot](ctx, a.store, models.SnapshotOptions),
		Earnings:  repository.LoadSnapshot[models.EarningsSnapshot](ctx, a.store, models.SnapshotEarnings),
		Calendar:  repository.LoadSnapshot[models.CalendarSnapshot](ctx, a.store, models.SnapshotCalendar),
		StockInfo: repository.LoadSnapshot[models.StockInfoSnapshot](ctx, a.store, models.SnapshotStockInfo),
		Analysis:  repository.LoadSnapshot[models.Digest](ctx, a.store, models.SnapshotAnalysis),
	}
	for name, err := range in.errs() {
		a.l.Warn("snapshot unreadable, treating as absent",
			applogger.String("snapshot", string(name)),
			applogger.Error(err),
		)
	}
	for name, dropped := range in.dropped() {
		a.l.Warn("snapshot has malformed values, skipped",
			applogger.String("snapshot", string(name)),
			applogger.Strings("values", dropped),
		)
	}
	return in
}

// Build loads the snapshots and aggregates them for date.
func (a *ReportAggregator) Build(ctx context.Context, date string, supplied *models.Digest) *models.ReportView {
	return a.Aggregate(date, a.Load(ctx), supplied)
}

// Aggregate is a pure function of its arguments: identical inputs produce
// an identical view.
func (a *ReportAggregator) Aggregate(date string, in Inputs, supplied *models.Digest) *models.ReportView {
	v := &models.ReportView{
		Date:                date,
		PremarketUpdateTime: util.FormatUpdateTime(in.latest(models.PremarketGroup), a.loc),
		OptionsUpdateTime:   util.FormatUpdateTime(in.latest(models.OptionsGroup), a.loc),
		CalendarEvents:      []models.CalendarRow{},
		RatingChanges:       []models.RatingGroup{},
		StockInfo:           map[string]models.StockInfo{},
		IndexOptions:        []models.OptionsRow{},
		TopStocks:           []models.OptionsRow{},
		Sources:             in.presence(),
	}

	if in.Calendar.Present {
		v.CalendarEvents = CalendarRows(in.Calendar.Doc.USEvents, a.limits.CalendarEvents)
	}
	if in.Earnings.Present {
		v.Earnings = BucketEarnings(in.Earnings.Doc, a.limits.EarningsPerBucket)
	}
	if in.Ratings.Present {
		v.RatingChanges = GroupRatings(in.Ratings.Doc, a.limits.RawRatingChanges, a.limits.RatingGroups)
	}
	if in.StockInfo.Present && in.StockInfo.Doc.Stocks != nil {
		v.StockInfo = in.StockInfo.Doc.Stocks
	}
	if in.Options.Present {
		doc := in.Options.Doc
		ov := DeriveOverview(doc.MarketOverview)
		v.MarketOverview = &ov
		v.IndexOptions = DeriveOptions(doc.IndexOptions, -1)
		v.TopStocks = DeriveOptions(rankByVolume(doc.TopStocks), a.limits.TopStocks)
	}

	var persisted *models.Digest
	if in.Analysis.Present {
		persisted = &in.Analysis.Doc
	}
	var news []models.NewsItem
	if in.News.Present {
		news = in.News.Doc.News
	}
	digest, src := ResolveDigest(persisted, supplied, news, a.limits)
	v.CoreNews = digest.CoreNews
	v.FocusAreas = digest.FocusAreas
	v.DigestSource = src
	return v
}

// CalendarRows keeps the first n events in stored order, reduced to clock time.
func CalendarRows(events []models.CalendarEvent, n int) []models.CalendarRow {
	events = head(events, n)
	rows := make([]models.CalendarRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.CalendarRow{
			Time:     util.ClockTime(e.Time),
			Event:    e.Event,
			Actual:   e.Actual,
			Estimate: e.Estimate,
			Prev:     e.Prev,
		})
	}
	return rows
}

// BucketEarnings splits events by session and keeps the n largest by market
// cap in each bucket. Events with no market cap rank as zero.
func BucketEarnings(doc models.EarningsSnapshot, n int) *models.EarningsView {
	events := make([]models.EarningsEvent, 0, len(doc.BeforeMarket)+len(doc.AfterMarket))
	events = append(events, doc.BeforeMarket...)
	events = append(events, doc.AfterMarket...)
	if len(events) == 0 {
		events = doc.AllEarnings
	}

	view := &models.EarningsView{
		BeforeMarket: []models.EarningsEvent{},
		AfterMarket:  []models.EarningsEvent{},
	}
	for _, e := range events {
		switch e.Hour {
		case models.SessionBeforeMarket:
			view.BeforeMarket = append(view.BeforeMarket, e)
		case models.SessionAfterMarket:
			view.AfterMarket = append(view.AfterMarket, e)
		}
	}
	for _, bucket := range []*[]models.EarningsEvent{&view.BeforeMarket, &view.AfterMarket} {
		b := *bucket
		sort.SliceStable(b, func(i, j int) bool {
			return util.Deref(b[i].MarketCap) > util.Deref(b[j].MarketCap)
		})
		*bucket = head(b, n)
	}
	return view
}

// GroupRatings takes the first rawLimit changes, groups them by symbol in
// first-seen order and keeps the first groupLimit groups. Changes without a
// symbol share one group keyed by the empty string.
func GroupRatings(doc models.RatingsSnapshot, rawLimit, groupLimit int) []models.RatingGroup {
	summaries := make(map[string]models.RatingSummary, len(doc.Ratings))
	for _, r := range doc.Ratings {
		summaries[r.Symbol] = r
	}

	groups := []models.RatingGroup{}
	index := map[string]int{}
	for _, c := range head(doc.RecentChanges, rawLimit) {
		i, ok := index[c.Symbol]
		if !ok {
			g := models.RatingGroup{Symbol: c.Symbol, Firms: []models.FirmChange{}}
			if s, found := summaries[c.Symbol]; found {
				g.TargetMean = s.TargetMean
				g.UpsidePct = s.UpsidePct
				g.CurrentPrice = s.CurrentPrice
				g.Recommendation = s.Recommendation
			}
			groups = append(groups, g)
			i = len(groups) - 1
			index[c.Symbol] = i
		}
		groups[i].Firms = append(groups[i].Firms, models.FirmChange{
			Company:   c.Company,
			Action:    c.Action,
			FromGrade: c.FromGrade,
			ToGrade:   c.ToGrade,
			Date:      c.Date,
		})
	}
	return head(groups, groupLimit)
}

// DeriveOptions adds the call/put split and put/call ratio to each entry.
// A negative n keeps everything.
func DeriveOptions(entries []models.OptionsEntry, n int) []models.OptionsRow {
	if n >= 0 {
		entries = head(entries, n)
	}
	rows := make([]models.OptionsRow, 0, len(entries))
	for _, e := range entries {
		callPct, putPct := util.SplitPercent(e.CallVolume, e.TotalVolume)
		rows = append(rows, models.OptionsRow{
			OptionsEntry: e,
			CallPct:      callPct,
			PutPct:       putPct,
			PCRatio:      util.SafeRatio(float64(e.PutVolume), float64(e.CallVolume), 2),
		})
	}
	return rows
}

// DeriveOverview recomputes the aggregate ratio from the volume totals and
// classifies it. The stored ratio is used only when there is no volume at all.
func DeriveOverview(ov models.MarketOverview) models.OverviewView {
	ratio := ov.PCRatio
	if ov.TotalCallVolume > 0 || ov.TotalPutVolume > 0 {
		ratio = util.SafeRatio(float64(ov.TotalPutVolume), float64(ov.TotalCallVolume), 2)
	}
	s := models.ClassifySentiment(ratio)

	total := ov.TotalVolume
	if total == 0 {
		total = ov.TotalCallVolume + ov.TotalPutVolume
	}
	callPct, putPct := util.SplitPercent(ov.TotalCallVolume, total)

	out := models.OverviewView{
		MarketOverview: ov,
		CallPct:        callPct,
		PutPct:         putPct,
		SentimentEn:    s.LabelEn,
		SentimentClass: s.Class,
	}
	out.PCRatio = ratio
	out.Sentiment = s.Label
	return out
}

func rankByVolume(entries []models.OptionsEntry) []models.OptionsEntry {
	out := append([]models.OptionsEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalVolume > out[j].TotalVolume
	})
	return out
}

func head[T any](xs []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func (in Inputs) modTime(name models.SnapshotName) time.Time {
	switch name {
	case models.SnapshotNews:
		return in.News.ModTime
	case models.SnapshotRatings:
		return in.Ratings.ModTime
	case models.SnapshotOptions:
		return in.Options.ModTime
	case models.SnapshotEarnings:
		return in.Earnings.ModTime
	case models.SnapshotCalendar:
		return in.Calendar.ModTime
	case models.SnapshotStockInfo:
		return in.StockInfo.ModTime
	case models.SnapshotAnalysis:
		return in.Analysis.ModTime
	}
	return time.Time{}
}

func (in Inputs) latest(group []models.SnapshotName) time.Time {
	ts := make([]time.Time, 0, len(group))
	for _, n := range group {
		ts = append(ts, in.modTime(n))
	}
	return util.LatestTime(ts...)
}

func (in Inputs) presence() map[models.SnapshotName]bool {
	return map[models.SnapshotName]bool{
		models.SnapshotNews:      in.News.Present,
		models.SnapshotRatings:   in.Ratings.Present,
		models.SnapshotOptions:   in.Options.Present,
		models.SnapshotEarnings:  in.Earnings.Present,
		models.SnapshotCalendar:  in.Calendar.Present,
		models.SnapshotStockInfo: in.StockInfo.Present,
		models.SnapshotAnalysis:  in.Analysis.Present,
	}
}

func (in Inputs) errs() map[models.SnapshotName]error {
	out := map[models.SnapshotName]error{}
	for name, err := range map[models.SnapshotName]error{
		models.SnapshotNews:      in.News.Err,
		models.SnapshotRatings:   in.Ratings.Err,
		models.SnapshotOptions:   in.Options.Err,
		models.SnapshotEarnings:  in.Earnings.Err,
		models.SnapshotCalendar:  in.Calendar.Err,
		models.SnapshotStockInfo: in.StockInfo.Err,
		models.SnapshotAnalysis:  in.Analysis.Err,
	} {
		if err != nil {
			out[name] = err
		}
	}
	return out
}

func (in Inputs) dropped() map[models.SnapshotName][]string {
	out := map[models.SnapshotName][]string{}
	for name, d := range map[models.SnapshotName][]string{
		models.SnapshotNews:      in.News.Dropped,
		models.SnapshotRatings:   in.Ratings.Dropped,
		models.SnapshotOptions:   in.Options.Dropped,
		models.SnapshotEarnings:  in.Earnings.Dropped,
		models.SnapshotCalendar:  in.Calendar.Dropped,
		models.SnapshotStockInfo: in.StockInfo.Dropped,
		models.SnapshotAnalysis:  in.Analysis.Dropped,
	} {
		if len(d) > 0 {
			out[name] = d
		}
	}
	return out
}
