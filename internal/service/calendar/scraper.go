package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
)

const DefaultURL = "https://www.investing.com/economic-calendar/"

// Scraper reads today's economic events from the investing.com calendar page.
type Scraper struct {
	http      *xhttp.Client
	url       string
	country   string
	maxEvents int
}

func New(url, country string, maxEvents int, timeout time.Duration) *Scraper {
	if url == "" {
		url = DefaultURL
	}
	if country == "" {
		country = "US"
	}
	return &Scraper{
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithHeader("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			xhttp.WithHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"),
			xhttp.WithHeader("Accept-Language", "en-US,en;q=0.5"),
		),
		url:       url,
		country:   country,
		maxEvents: maxEvents,
	}
}

// Events downloads the calendar page and returns the rows for the
// configured country, stamped with date.
func (s *Scraper) Events(ctx context.Context, date string) ([]models.CalendarEvent, error) {
	var body []byte
	if err := s.http.SendAndParse(ctx, &xhttp.RequestOptions{URL: s.url}, &body); err != nil {
		return nil, fmt.Errorf("calendar page: %w", err)
	}
	return Parse(bytes.NewReader(body), date, s.country, s.maxEvents)
}

// countryNames maps the ISO code to the flag title and currency shown on the page.
var countryNames = map[string][2]string{
	"US": {"United States", "USD"},
	"EU": {"Euro Zone", "EUR"},
	"GB": {"United Kingdom", "GBP"},
	"JP": {"Japan", "JPY"},
	"CN": {"China", "CNY"},
}

// Parse extracts event rows from a calendar page. Only the first maxEvents
// rows of the page are considered, and rows without an event link are skipped.
func Parse(r io.Reader, date, country string, maxEvents int) ([]models.CalendarEvent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	names, ok := countryNames[country]
	if !ok {
		names = [2]string{country, country}
	}

	events := []models.CalendarEvent{}
	rows := doc.Find("tr.js-event-item")
	if maxEvents > 0 && rows.Length() > maxEvents {
		rows = rows.Slice(0, maxEvents)
	}
	rows.Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td.event a").First()
		if link.Length() == 0 {
			return
		}
		flag := row.Find("td.flagCur span").First()
		title, _ := flag.Attr("title")
		if !strings.Contains(title, names[0]) && !strings.Contains(row.Find("td.flagCur").Text(), names[1]) {
			return
		}
		events = append(events, models.CalendarEvent{
			Time:     strings.TrimSpace(date + " " + cellText(row, "td.time")),
			Country:  country,
			Event:    strings.TrimSpace(link.Text()),
			Impact:   impact(row),
			Actual:   optionalText(row, "td.act"),
			Estimate: optionalText(row, "td.fore"),
			Prev:     optionalText(row, "td.prev"),
		})
	})
	return events, nil
}

func cellText(row *goquery.Selection, sel string) string {
	return strings.TrimSpace(row.Find(sel).First().Text())
}

func optionalText(row *goquery.Selection, sel string) *string {
	cell := row.Find(sel).First()
	if cell.Length() == 0 {
		return nil
	}
	v := strings.TrimSpace(cell.Text())
	return &v
}

// impact reads the bull-icon count in the sentiment cell: 1 low, 2 medium, 3 high.
func impact(row *goquery.Selection) string {
	switch row.Find("td.sentiment i.grayFullBullishIcon").Length() {
	case 1:
		return "low"
	case 3:
		return "high"
	default:
		return "medium"
	}
}
