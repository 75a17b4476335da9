package enricher

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

const ProviderAnthropic = "anthropic"

// AnthropicEnricher asks a Claude model for the digest through the Messages API.
type AnthropicEnricher struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropic creates the enricher. Extra request options (base URL, HTTP
// client) are passed through to the SDK. Retries are disabled.
func NewAnthropic(apiKey, model string, maxTokens int, opts ...option.RequestOption) (*AnthropicEnricher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY", models.ErrMissingCredential)
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &AnthropicEnricher{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (e *AnthropicEnricher) Name() string { return ProviderAnthropic }

func (e *AnthropicEnricher) Enrich(ctx context.Context, in models.EnrichmentInput) (*models.Digest, error) {
	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: int64(e.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(in))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: messages api: %v", models.ErrEnrichmentFailed, err)
	}

	var reply strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	return ParseDigest(reply.String())
}
