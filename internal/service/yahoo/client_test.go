package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/service/ratelimit"
	"github.com/Kiwitwitter/daily-finance/pkg/cache"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
)

const summaryFixture = `{"quoteSummary":{"result":[{
  "price":{"shortName":"Apple Inc.","regularMarketPrice":{"raw":180.0,"fmt":"180.00"},"regularMarketPreviousClose":{"raw":178.0},"marketCap":{"raw":2.8e12}},
  "summaryDetail":{"previousClose":{"raw":177.5},"volume":{"raw":5.1e7},"fiftyTwoWeekHigh":{"raw":199.6},"fiftyTwoWeekLow":{"raw":164.1},"trailingPE":{"raw":28.1},"dayHigh":{},"dayLow":{}},
  "financialData":{"currentPrice":{"raw":181.0},"targetMeanPrice":{"raw":200.0},"targetHighPrice":{"raw":250.0},"targetLowPrice":{"raw":160.0},"recommendationKey":"buy","numberOfAnalystOpinions":{"raw":38}},
  "assetProfile":{"sector":"Technology","industry":"Consumer Electronics"},
  "upgradeDowngradeHistory":{"history":[{"epochGradeDate":1714521600,"firm":"Morgan Stanley","toGrade":"Overweight","fromGrade":"Equal-Weight","action":"up"}]}
}],"error":null}}`

const optionsFixture = `{"optionChain":{"result":[{"underlyingSymbol":"AAPL","expirationDates":[1714694400,1715299200],
  "options":[{"expirationDate":1714694400,
    "calls":[{"strike":180,"volume":1200},{"strike":185,"volume":3400},{"strike":190}],
    "puts":[{"strike":170,"volume":900},{"strike":175,"volume":100}]}]}],"error":null}}`

func TestInfo(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("modules"), "financialData")
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		_, _ = w.Write([]byte(summaryFixture))
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mem.Close()
	c := New(srv.URL, time.Second, WithCache(mem, time.Minute), WithLimiter(ratelimit.New(0, 1)))

	info, err := c.Info(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", info.Name())
	assert.Equal(t, 181.0, *info.CurrentPrice())
	assert.Equal(t, 177.5, *info.PreviousClose())
	assert.Equal(t, 2.8e12, *info.MarketCap())
	assert.Nil(t, info.DayHigh())
	assert.Equal(t, 200.0, *info.TargetMean())
	assert.Equal(t, "buy", info.RecommendationKey())
	assert.Equal(t, 38, info.NumAnalysts())
	assert.Equal(t, "Technology", info.Sector())
	require.Len(t, info.GradeChanges(), 1)
	assert.Equal(t, "Morgan Stanley", info.GradeChanges()[0].Firm)

	_, err = c.Info(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestInfoNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Info(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestInfoYahooError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Info(context.Background(), "ZZZZ")
	assert.ErrorContains(t, err, "Quote not found")
}

func TestNearestChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/options/^VIX", r.URL.Path)
		_, _ = w.Write([]byte(optionsFixture))
	}))
	defer srv.Close()

	chain, err := New(srv.URL, time.Second).NearestChain(context.Background(), "^VIX")
	require.NoError(t, err)
	assert.Equal(t, int64(1714694400), chain.ExpirationDate)
	assert.Len(t, chain.Calls, 3)
	assert.Nil(t, chain.Calls[2].Volume)
}

// crumbServer issues crumbs c1, c2, ... and accepts data requests only with
// the session cookie and the crumb named by valid.
type crumbServer struct {
	crumbs int32
	valid  string
	empty  bool
}

func (s *crumbServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/cookie":
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
		w.WriteHeader(http.StatusNotFound)
	case "/v1/test/getcrumb":
		if ck, err := r.Cookie("A3"); err != nil || ck.Value != "session" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		n := atomic.AddInt32(&s.crumbs, 1)
		if s.empty {
			return
		}
		_, _ = fmt.Fprintf(w, "c%d", n)
	default:
		ck, err := r.Cookie("A3")
		if err != nil || ck.Value != "session" || r.URL.Query().Get("crumb") != s.valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"finance":{"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`))
			return
		}
		if strings.HasPrefix(r.URL.Path, "/v7/finance/options/") {
			_, _ = w.Write([]byte(optionsFixture))
			return
		}
		_, _ = w.Write([]byte(summaryFixture))
	}
}

func TestSessionHandshake(t *testing.T) {
	cs := &crumbServer{valid: "c1"}
	srv := httptest.NewServer(cs)
	defer srv.Close()

	c := New(srv.URL, time.Second, WithSession(srv.URL+"/cookie"))
	info, err := c.Info(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", info.Name())

	_, err = c.NearestChain(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&cs.crumbs))
}

func TestSessionRefreshesRejectedCrumb(t *testing.T) {
	cs := &crumbServer{valid: "c2"}
	srv := httptest.NewServer(cs)
	defer srv.Close()

	c := New(srv.URL, time.Second, WithSession(srv.URL+"/cookie"))
	_, err := c.NearestChain(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&cs.crumbs))
}

func TestSessionGivesUpAfterOneRefresh(t *testing.T) {
	cs := &crumbServer{valid: "never"}
	srv := httptest.NewServer(cs)
	defer srv.Close()

	c := New(srv.URL, time.Second, WithSession(srv.URL+"/cookie"))
	_, err := c.NearestChain(context.Background(), "SPY")
	var se *xhttp.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&cs.crumbs))
}

func TestSessionEmptyCrumb(t *testing.T) {
	srv := httptest.NewServer(&crumbServer{empty: true})
	defer srv.Close()

	_, err := New(srv.URL, time.Second, WithSession(srv.URL+"/cookie")).Info(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoCrumb)
}
