package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	ollamax "github.com/tanpawarit/promo-agent/pkg/ollama"
	openrouterx "github.com/tanpawarit/promo-agent/pkg/openrouter"
)

type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderOpenAI     Provider = "openai"
	ProviderOllama     Provider = "ollama"
)

type Config struct {
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"openrouter"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"phi4"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
	OllamaHost         string        `envconfig:"OLLAMA_HOST" split_words:"true" default:"http://localhost:11434"`
}

func (c Config) provider() Provider {
	p := Provider(strings.ToLower(strings.TrimSpace(c.Provider)))
	if p == "" {
		return ProviderOpenRouter
	}
	return p
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("%w: temperature must be >= 0", contractx.ErrValidation)
	}

	switch c.provider() {
	case ProviderOpenRouter, ProviderOpenAI:
		if strings.TrimSpace(c.APIKey) == "" {
			return fmt.Errorf("%w: api key is required for provider=%s", contractx.ErrValidation, c.provider())
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("%w: unsupported provider=%q", contractx.ErrValidation, c.Provider)
	}
	return nil
}

func (c Config) OpenRouter() openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) Ollama() ollamax.Config {
	return ollamax.Config{
		Host:    strings.TrimSpace(c.OllamaHost),
		Model:   strings.TrimSpace(c.Model),
		Timeout: c.Timeout,
	}
}
