package enricher

import (
	"fmt"
	"strings"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

const promptTemplate = `你是一位专业的美股市场分析师。请基于以下今日市场数据生成简洁的分析，同时提供中文和英文版本。
You are a professional U.S. equity market analyst. Summarize today's data below in both Chinese and English.

## News
%s

## Analyst rating changes
%s

## Options market
Sentiment: %s
P/C ratio: %.2f
Top options volume: %s

## Earnings today
Before market: %s
After market: %s

Respond with a single JSON object and nothing else, no markdown fences:
{
  "core_news": [
    {"tag": "中文分类(科技/金融/宏观/能源...)", "tag_en": "Tech/Finance/Macro/Energy...", "summary": "一句话中文摘要，包含投资逻辑", "summary_en": "One-line English summary with the investment angle"}
  ],
  "focus_areas": [
    {"title": "中文关注领域", "title_en": "Focus area", "reason": "为什么今天需要关注", "reason_en": "Why it matters today"}
  ]
}

Rules:
1. At most %d core_news entries.
2. Between %d and %d focus_areas, combining news, ratings and options data.
3. Keep tags short; keep summaries to one sentence.`

const (
	MaxCoreNews      = 7
	MinFocusAreas    = 3
	MaxFocusAreas    = 5
	emptyPlaceholder = "-"
)

// BuildPrompt renders the enrichment request for in.
func BuildPrompt(in models.EnrichmentInput) string {
	news := make([]string, 0, len(in.News))
	for _, n := range in.News {
		line := "- " + n.Headline
		if len(n.Related) > 0 {
			line += " (" + strings.Join(n.Related, ", ") + ")"
		}
		news = append(news, line)
	}

	ratings := make([]string, 0, len(in.RatingChanges))
	for _, r := range in.RatingChanges {
		ratings = append(ratings, strings.TrimSpace(fmt.Sprintf("- %s: %s %s to %s", r.Symbol, r.Company, r.Action, r.ToGrade)))
	}

	return fmt.Sprintf(promptTemplate,
		lines(news),
		lines(ratings),
		orDash(in.Overview.Sentiment),
		in.Overview.PCRatio,
		joinOrDash(in.TopOptions),
		joinOrDash(in.BeforeMarket),
		joinOrDash(in.AfterMarket),
		MaxCoreNews, MinFocusAreas, MaxFocusAreas,
	)
}

func lines(ss []string) string {
	if len(ss) == 0 {
		return emptyPlaceholder
	}
	return strings.Join(ss, "\n")
}

func joinOrDash(ss []string) string {
	if len(ss) == 0 {
		return emptyPlaceholder
	}
	return strings.Join(ss, ", ")
}

func orDash(s string) string {
	if s == "" {
		return emptyPlaceholder
	}
	return s
}
