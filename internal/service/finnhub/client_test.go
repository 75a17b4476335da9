package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", "", time.Second)
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestGeneralNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		assert.Equal(t, "general", r.URL.Query().Get("category"))
		assert.Equal(t, "k", r.Header.Get("X-Finnhub-Token"))
		_, _ = w.Write([]byte(`[{"id":7,"category":"top news","datetime":1714550400,"headline":"Fed holds","related":"AAPL,MSFT","source":"Reuters","summary":"s","url":"https://x"}]`))
	}))
	defer srv.Close()

	c, err := New("k", srv.URL, time.Second)
	require.NoError(t, err)
	news, err := c.GeneralNews(context.Background(), "general")
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, int64(7), news[0].ID)
	assert.Equal(t, "AAPL,MSFT", news[0].Related)
}

func TestEarningsCalendar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar/earnings", r.URL.Path)
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-05-02", r.URL.Query().Get("to"))
		_, _ = w.Write([]byte(`{"earningsCalendar":[{"date":"2024-05-01","epsEstimate":1.5,"epsActual":null,"hour":"amc","symbol":"AAPL","revenueEstimate":9e10}]}`))
	}))
	defer srv.Close()

	c, err := New("k", srv.URL, time.Second)
	require.NoError(t, err)
	rows, err := c.EarningsCalendar(context.Background(), "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "amc", rows[0].Hour)
	assert.Nil(t, rows[0].EPSActual)
	assert.Equal(t, 1.5, *rows[0].EPSEstimate)
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New("k", srv.URL, time.Second)
	require.NoError(t, err)
	_, err = c.GeneralNews(context.Background(), "general")
	assert.ErrorContains(t, err, "429")
}
