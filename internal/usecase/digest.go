package usecase

import (
	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

// FallbackTag labels every headline of a synthesized digest.
const FallbackTag = "market"

type digestTier struct {
	source models.DigestSource
	digest *models.Digest
}

// ResolveDigest walks the tiers in priority order: the persisted digest,
// then the caller supplied one, then a digest synthesized from headlines.
// The first tier with any content wins.
func ResolveDigest(persisted, supplied *models.Digest, news []models.NewsItem, limits config.Limits) (models.Digest, models.DigestSource) {
	tiers := []digestTier{
		{models.DigestPersisted, persisted},
		{models.DigestSupplied, supplied},
	}
	for _, t := range tiers {
		if !t.digest.Empty() {
			return normalizeDigest(*t.digest), t.source
		}
	}
	return FallbackDigest(news, limits.FallbackHeadlines, limits.HeadlineLength), models.DigestFallback
}

// FallbackDigest uses the first n headlines, each cut to length runes, and
// no focus areas.
func FallbackDigest(news []models.NewsItem, n, length int) models.Digest {
	news = head(news, n)
	d := models.Digest{
		CoreNews:   make([]models.CoreNews, 0, len(news)),
		FocusAreas: []models.FocusArea{},
	}
	for _, item := range news {
		headline := util.TruncateRunes(item.Headline, length)
		d.CoreNews = append(d.CoreNews, models.CoreNews{
			Tag:       FallbackTag,
			TagEn:     FallbackTag,
			Summary:   headline,
			SummaryEn: headline,
		})
	}
	return d
}

func normalizeDigest(d models.Digest) models.Digest {
	if d.CoreNews == nil {
		d.CoreNews = []models.CoreNews{}
	}
	if d.FocusAreas == nil {
		d.FocusAreas = []models.FocusArea{}
	}
	return d
}
