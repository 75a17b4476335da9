package enricher

import (
	"fmt"

	domrepo "github.com/Kiwitwitter/daily-finance/internal/domain/repository"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
)

const ProviderNone = "none"

// New builds the configured enricher. Provider "none" returns nil, which
// callers treat as "always use the fallback digest".
func New(cfg *config.Config) (domrepo.Enricher, error) {
	switch cfg.Enricher.Provider {
	case ProviderAnthropic, "":
		e, err := NewAnthropic(cfg.Enricher.APIKey, cfg.Enricher.Model, cfg.Enricher.MaxTokens)
		if err != nil {
			return nil, err
		}
		return e, nil
	case ProviderCommand:
		e, err := NewCommand(cfg.Enricher.Command)
		if err != nil {
			return nil, err
		}
		return e, nil
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown enricher provider %q", cfg.Enricher.Provider)
	}
}
