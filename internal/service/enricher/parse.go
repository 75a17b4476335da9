package enricher

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

// ParseDigest extracts the digest JSON object from a model reply. Code
// fences and surrounding prose are tolerated; an empty digest is not.
func ParseDigest(reply string) (*models.Digest, error) {
	text := reply
	if _, after, ok := strings.Cut(text, "```json"); ok {
		text, _, _ = strings.Cut(after, "```")
	} else if parts := strings.SplitN(text, "```", 3); len(parts) == 3 {
		text = parts[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", models.ErrEnrichmentFailed)
	}

	var d models.Digest
	if err := json.Unmarshal([]byte(text[start:end+1]), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEnrichmentFailed, err)
	}
	if d.Empty() {
		return nil, fmt.Errorf("%w: empty digest", models.ErrEnrichmentFailed)
	}

	if len(d.CoreNews) > MaxCoreNews {
		d.CoreNews = d.CoreNews[:MaxCoreNews]
	}
	if len(d.FocusAreas) > MaxFocusAreas {
		d.FocusAreas = d.FocusAreas[:MaxFocusAreas]
	}
	if d.FocusAreas == nil {
		d.FocusAreas = []models.FocusArea{}
	}
	if d.CoreNews == nil {
		d.CoreNews = []models.CoreNews{}
	}
	return &d, nil
}
