package llm

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	ollamax "github.com/tanpawarit/promo-agent/pkg/ollama"
	openrouterx "github.com/tanpawarit/promo-agent/pkg/openrouter"
)

// NewOracle builds the oracle selected by cfg.Provider.
func NewOracle(ctx context.Context, cfg Config) (contractx.Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.provider() {
	case ProviderOpenRouter:
		orCfg := cfg.OpenRouter()
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrOracleInvoke, err)
		}
		return NewEinoOracle(ctx, chatModel)
	case ProviderOpenAI:
		client := openrouterx.NewClient(cfg.OpenRouter())
		if client == nil {
			return nil, fmt.Errorf("%w: openai client not configured", contractx.ErrValidation)
		}
		return NewOpenAIOracle(client, cfg.Model, cfg.Temperature, cfg.MaxCompletionToken), nil
	case ProviderOllama:
		olCfg := cfg.Ollama()
		client, err := ollamax.NewClient(olCfg)
		if err != nil {
			return nil, err
		}
		return NewOllamaOracle(client, olCfg.Model, cfg.Temperature), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider=%q", contractx.ErrValidation, cfg.Provider)
	}
}
