package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/service/ratelimit"
	"github.com/Kiwitwitter/daily-finance/pkg/cache"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
)

const (
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	browserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Modules requested from quoteSummary for every symbol.
var Modules = []string{"price", "summaryDetail", "financialData", "assetProfile", "upgradeDowngradeHistory"}

var (
	ErrNoData  = errors.New("yahoo: no data")
	ErrNoCrumb = errors.New("yahoo: no crumb")
)

// Client reads quote summaries and option chains from Yahoo Finance.
// Quote summaries are cached for cacheTTL so several fetchers in one run
// share a single request per symbol.
//
// With a session configured, the client first collects a session cookie
// from cookieURL and a crumb from /v1/test/getcrumb, then sends both on
// every data request. A rejected crumb is fetched again once.
type Client struct {
	http      *xhttp.Client
	baseURL   string
	host      string
	limiter   *ratelimit.Limiter
	cache     cache.Service
	cacheTTL  time.Duration
	cookieURL string

	mu    sync.Mutex
	crumb string
}

// Option configures Client.
type Option func(*Client)

// WithCache enables quote summary caching.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithLimiter paces requests.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(cl *Client) {
		cl.limiter = l
	}
}

// WithSession enables the cookie and crumb handshake, taking the session
// cookie from cookieURL. An empty cookieURL leaves it off.
func WithSession(cookieURL string) Option {
	return func(cl *Client) {
		cl.cookieURL = cookieURL
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	c := &Client{baseURL: baseURL, host: host}
	for _, opt := range opts {
		opt(c)
	}

	httpOpts := []xhttp.ClientOption{
		xhttp.WithTimeout(timeout),
		xhttp.WithHeader("User-Agent", browserAgent),
		xhttp.WithHeader("Accept", "application/json,text/plain,*/*"),
		xhttp.WithHeader("Accept-Language", "en-US,en;q=0.5"),
	}
	if c.cookieURL != "" {
		jar, _ := cookiejar.New(nil)
		httpOpts = append(httpOpts, xhttp.WithCookieJar(jar))
	}
	c.http = xhttp.NewClient(httpOpts...)
	return c
}

// Info returns the flattened quote summary for symbol.
func (c *Client) Info(ctx context.Context, symbol string) (Info, error) {
	key := cache.GenerateKeyWithParams("yahoo", "summary", symbol)
	s, err := cache.GetOrLoad(ctx, c.cache, key, c.cacheTTL, func(ctx context.Context) (Summary, error) {
		return c.quoteSummary(ctx, symbol)
	})
	if err != nil {
		return Info{}, err
	}
	return Info{s: s}, nil
}

func (c *Client) quoteSummary(ctx context.Context, symbol string) (Summary, error) {
	var resp quoteSummaryResponse
	err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), map[string][]string{
		"modules": {strings.Join(Modules, ",")},
	}, &resp)
	if err != nil {
		return Summary{}, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		return Summary{}, fmt.Errorf("quote summary %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return Summary{}, fmt.Errorf("quote summary %s: %w", symbol, ErrNoData)
	}
	return resp.QuoteSummary.Result[0], nil
}

// NearestChain returns the option chain for the nearest expiration.
func (c *Client) NearestChain(ctx context.Context, symbol string) (*Chain, error) {
	var resp optionsResponse
	if err := c.get(ctx, "/v7/finance/options/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, fmt.Errorf("options %s: %w", symbol, err)
	}
	if e := resp.OptionChain.Error; e != nil {
		return nil, fmt.Errorf("options %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("options %s: %w", symbol, ErrNoData)
	}
	r := resp.OptionChain.Result[0]
	if len(r.ExpirationDates) == 0 || len(r.Options) == 0 {
		return nil, fmt.Errorf("options %s: %w", symbol, ErrNoData)
	}
	chain := r.Options[0]
	if chain.ExpirationDate == 0 {
		chain.ExpirationDate = r.ExpirationDates[0]
	}
	return &chain, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if c.cookieURL == "" {
		return c.send(ctx, path, query, dest)
	}
	for attempt := 0; ; attempt++ {
		crumb, err := c.sessionCrumb(ctx)
		if err != nil {
			return err
		}
		q := make(map[string][]string, len(query)+1)
		for k, v := range query {
			q[k] = v
		}
		q["crumb"] = []string{crumb}

		err = c.send(ctx, path, q, dest)
		var se *xhttp.StatusError
		if attempt == 0 && errors.As(err, &se) &&
			(se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
			c.dropCrumb(crumb)
			continue
		}
		return err
	}
}

func (c *Client) send(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	}, dest)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, c.host)
}

// sessionCrumb returns the current crumb, running the handshake when there
// is none yet. Concurrent callers share one handshake.
func (c *Client) sessionCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{Method: xhttp.MethodGet, URL: c.cookieURL})
	if err != nil {
		return "", fmt.Errorf("yahoo session cookie: %w", err)
	}
	_ = resp.Body.Close()

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	var body []byte
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/v1/test/getcrumb",
		Headers: map[string]string{"Accept": "text/plain"},
	}, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCrumb, err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", ErrNoCrumb
	}
	c.crumb = crumb
	return crumb, nil
}

// dropCrumb forgets crumb unless another caller already replaced it.
func (c *Client) dropCrumb(crumb string) {
	c.mu.Lock()
	if c.crumb == crumb {
		c.crumb = ""
	}
	c.mu.Unlock()
}
