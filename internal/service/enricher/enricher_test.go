package enricher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
)

const digestJSON = `{"core_news":[{"tag":"宏观","tag_en":"Macro","summary":"美联储按兵不动","summary_en":"Fed holds rates"}],"focus_areas":[{"title":"科技","title_en":"Tech","reason":"财报","reason_en":"Earnings"}]}`

func sampleInput() models.EnrichmentInput {
	return models.EnrichmentInput{
		News:          []models.NewsItem{{Headline: "Fed holds rates", Related: models.Symbols{"SPY"}}},
		RatingChanges: []models.RatingChange{{Symbol: "AAPL", Company: "Morgan Stanley", Action: "up", ToGrade: "Overweight"}},
		Overview:      models.MarketOverview{PCRatio: 0.85, Sentiment: "偏向看涨"},
		TopOptions:    []string{"TSLA", "NVDA"},
		AfterMarket:   []string{"AAPL"},
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleInput())
	assert.Contains(t, p, "- Fed holds rates (SPY)")
	assert.Contains(t, p, "- AAPL: Morgan Stanley up to Overweight")
	assert.Contains(t, p, "P/C ratio: 0.85")
	assert.Contains(t, p, "Top options volume: TSLA, NVDA")
	assert.Contains(t, p, "Before market: -")
	assert.Contains(t, p, "After market: AAPL")
}

func TestParseDigest(t *testing.T) {
	for name, reply := range map[string]string{
		"plain":  digestJSON,
		"fenced": "Here you go:\n```json\n" + digestJSON + "\n```\nthanks",
		"bare":   "```\n" + digestJSON + "\n```",
		"prose":  "Sure. " + digestJSON + " Done.",
	} {
		d, err := ParseDigest(reply)
		require.NoError(t, err, name)
		require.Len(t, d.CoreNews, 1, name)
		assert.Equal(t, "Macro", d.CoreNews[0].TagEn, name)
		assert.Len(t, d.FocusAreas, 1, name)
	}
}

func TestParseDigestRejects(t *testing.T) {
	for _, reply := range []string{"", "no json here", `{"core_news": [`, `{"core_news":[],"focus_areas":[]}`} {
		_, err := ParseDigest(reply)
		assert.ErrorIs(t, err, models.ErrEnrichmentFailed, reply)
	}
}

func TestParseDigestCaps(t *testing.T) {
	d := models.Digest{}
	for i := 0; i < 10; i++ {
		d.CoreNews = append(d.CoreNews, models.CoreNews{Tag: "t"})
		d.FocusAreas = append(d.FocusAreas, models.FocusArea{Title: "f"})
	}
	b, err := json.Marshal(d)
	require.NoError(t, err)

	got, err := ParseDigest(string(b))
	require.NoError(t, err)
	assert.Len(t, got.CoreNews, MaxCoreNews)
	assert.Len(t, got.FocusAreas, MaxFocusAreas)
}

func TestCommandEnricher(t *testing.T) {
	e, err := NewCommand([]string{"sh", "-c", "cat >/dev/null; printf '%s' '" + digestJSON + "'"})
	require.NoError(t, err)
	d, err := e.Enrich(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "Fed holds rates", d.CoreNews[0].SummaryEn)
}

func TestCommandEnricherPromptArg(t *testing.T) {
	e, err := NewCommand([]string{"sh", "-c", `case "$1" in *"Fed holds rates"*) printf '%s' "$2";; *) exit 1;; esac`, "sh", PromptPlaceholder, digestJSON})
	require.NoError(t, err)
	_, err = e.Enrich(context.Background(), sampleInput())
	assert.NoError(t, err)
}

func TestCommandEnricherFailures(t *testing.T) {
	fail, err := NewCommand([]string{"sh", "-c", "echo broken >&2; exit 3"})
	require.NoError(t, err)
	_, err = fail.Enrich(context.Background(), sampleInput())
	assert.ErrorIs(t, err, models.ErrEnrichmentFailed)
	assert.ErrorContains(t, err, "broken")

	slow, err := NewCommand([]string{"sh", "-c", "sleep 5"})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = slow.Enrich(ctx, sampleInput())
	assert.ErrorIs(t, err, models.ErrEnrichmentFailed)
	assert.Less(t, time.Since(start), 4*time.Second)

	_, err = NewCommand(nil)
	assert.Error(t, err)
}

func TestAnthropicEnricher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "claude-sonnet-4-20250514")

		w.Header().Set("Content-Type", "application/json")
		reply, _ := json.Marshal(map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-sonnet-4-20250514",
			"content":       []map[string]any{{"type": "text", "text": "```json\n" + digestJSON + "\n```"}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
		_, _ = w.Write(reply)
	}))
	defer srv.Close()

	e, err := NewAnthropic("test-key", "claude-sonnet-4-20250514", 1024, option.WithBaseURL(srv.URL))
	require.NoError(t, err)
	d, err := e.Enrich(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "宏观", d.CoreNews[0].Tag)
}

func TestAnthropicEnricherAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e, err := NewAnthropic("test-key", "claude-sonnet-4-20250514", 1024, option.WithBaseURL(srv.URL))
	require.NoError(t, err)
	_, err = e.Enrich(context.Background(), sampleInput())
	assert.ErrorIs(t, err, models.ErrEnrichmentFailed)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Enricher.APIKey = ""
	_, err := New(cfg)
	assert.ErrorIs(t, err, models.ErrMissingCredential)

	cfg.Enricher.Provider = ProviderNone
	e, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, e)

	cfg.Enricher.Provider = ProviderCommand
	cfg.Enricher.Command = []string{"claude", "-p", PromptPlaceholder}
	e, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, ProviderCommand, e.Name())
}
