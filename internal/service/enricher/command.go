package enricher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

const (
	ProviderCommand = "command"
	// PromptPlaceholder in an argument is replaced with the prompt; without
	// it the prompt is written to stdin.
	PromptPlaceholder = "{prompt}"

	// waitDelay bounds how long output pipes held by orphaned children
	// may block after the process is killed.
	waitDelay = 2 * time.Second
)

// CommandEnricher runs an external CLI (e.g. `claude -p {prompt}`) and
// parses its stdout. The process is killed when ctx expires.
type CommandEnricher struct {
	argv []string
}

func NewCommand(argv []string) (*CommandEnricher, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("enricher command is empty")
	}
	return &CommandEnricher{argv: append([]string(nil), argv...)}, nil
}

func (e *CommandEnricher) Name() string { return ProviderCommand }

func (e *CommandEnricher) Enrich(ctx context.Context, in models.EnrichmentInput) (*models.Digest, error) {
	prompt := BuildPrompt(in)

	args := make([]string, 0, len(e.argv)-1)
	viaArg := false
	for _, a := range e.argv[1:] {
		if strings.Contains(a, PromptPlaceholder) {
			a = strings.ReplaceAll(a, PromptPlaceholder, prompt)
			viaArg = true
		}
		args = append(args, a)
	}

	cmd := exec.CommandContext(ctx, e.argv[0], args...)
	cmd.WaitDelay = waitDelay
	if !viaArg {
		cmd.Stdin = strings.NewReader(prompt)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrEnrichmentFailed, ctxErr)
		}
		return nil, fmt.Errorf("%w: %v: %s", models.ErrEnrichmentFailed, err, strings.TrimSpace(stderr.String()))
	}
	return ParseDigest(stdout.String())
}
