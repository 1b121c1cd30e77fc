package scorer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/gocredit/internal/usecase"
)

// Options selects and configures a risk provider.
type Options struct {
	Provider  string // openai, deepseek, stub, none
	APIKey    string
	BaseURL   string
	Model     string
	StubScore int
}

// New returns the configured provider, or nil when Provider is "none" or
// empty. A nil provider makes every assessment fall back.
func New(ctx context.Context, opts Options, logger zerolog.Logger) (usecase.RiskProvider, error) {
	switch opts.Provider {
	case "", "none":
		return nil, nil
	case "stub":
		return NewStubProvider(opts.StubScore), nil
	case "openai":
		p, err := NewOpenAIProvider(ctx, opts.APIKey, opts.BaseURL, opts.Model, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "deepseek":
		p, err := NewDeepSeekProvider(ctx, opts.APIKey, opts.Model, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown risk provider %q", opts.Provider)
	}
}
