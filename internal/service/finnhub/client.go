package finnhub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
)

const DefaultBaseURL = "https://finnhub.io/api/v1"

// Client is a Finnhub REST client for market news and the earnings calendar.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
}

// New creates a client. An empty apiKey is an environment failure.
func New(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: FINNHUB_API_KEY", models.ErrMissingCredential)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

// Article is a Finnhub news item.
type Article struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// EarningsRelease is one row of the Finnhub earnings calendar. Hour is
// "bmo", "amc", "dmh" or empty.
type EarningsRelease struct {
	Date            string   `json:"date"`
	EPSActual       *float64 `json:"epsActual"`
	EPSEstimate     *float64 `json:"epsEstimate"`
	Hour            string   `json:"hour"`
	Quarter         int      `json:"quarter"`
	RevenueActual   *float64 `json:"revenueActual"`
	RevenueEstimate *float64 `json:"revenueEstimate"`
	Symbol          string   `json:"symbol"`
	Year            int      `json:"year"`
}

// GeneralNews returns the latest market news for category ("general", "forex", ...).
func (c *Client) GeneralNews(ctx context.Context, category string) ([]Article, error) {
	var out []Article
	err := c.get(ctx, "/news", map[string][]string{
		"category": {category},
		"minId":    {"0"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("finnhub news: %w", err)
	}
	return out, nil
}

// EarningsCalendar returns US earnings releases between from and to (YYYY-MM-DD, inclusive).
func (c *Client) EarningsCalendar(ctx context.Context, from, to string) ([]EarningsRelease, error) {
	var out struct {
		EarningsCalendar []EarningsRelease `json:"earningsCalendar"`
	}
	err := c.get(ctx, "/calendar/earnings", map[string][]string{
		"from":          {from},
		"to":            {to},
		"international": {"false"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("finnhub earnings calendar: %w", err)
	}
	return out.EarningsCalendar, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		Headers:     map[string]string{"X-Finnhub-Token": c.apiKey},
		QueryParams: query,
	}, dest)
}
