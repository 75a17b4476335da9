package sources

import (
	"context"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/logger"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

const calendarNote = "Economic calendar data may be limited. Check Investing.com for full calendar."

// CalendarFetcher stores today's economic events. A failed scrape still
// writes an empty document so the report shows the section as empty.
type CalendarFetcher struct {
	base
	api CalendarAPI
}

func NewCalendarFetcher(api CalendarAPI, l *logger.Logger, opts ...Option) *CalendarFetcher {
	return &CalendarFetcher{base: newBase(models.SnapshotCalendar, l, opts), api: api}
}

func (f *CalendarFetcher) Source() models.SnapshotName { return models.SnapshotCalendar }

func (f *CalendarFetcher) Fetch(ctx context.Context) (any, int, error) {
	now := f.clock()
	snap := models.CalendarSnapshot{
		Meta:     models.NewMeta(now),
		USEvents: []models.CalendarEvent{},
	}

	events, err := f.api.Events(ctx, now.Format(util.DateLayout))
	if err != nil {
		f.log.Warn("economic calendar unavailable", logger.Error(err))
		snap.Note = calendarNote
		return snap, 0, nil
	}
	if len(events) == 0 {
		snap.Note = calendarNote
	} else {
		snap.USEvents = events
	}
	snap.TotalEvents = len(snap.USEvents)
	return snap, snap.TotalEvents, nil
}
