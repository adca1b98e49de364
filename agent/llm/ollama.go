package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var _ contractx.Oracle = (*OllamaOracle)(nil)

type OllamaOracle struct {
	client      *api.Client
	model       string
	temperature float32
}

func NewOllamaOracle(client *api.Client, model string, temperature float32) *OllamaOracle {
	return &OllamaOracle{client: client, model: model, temperature: temperature}
}

func (o *OllamaOracle) Complete(ctx context.Context, transcript contractx.Transcript) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: ToOllamaMessages(transcript),
		Stream:   &stream,
		Options:  map[string]any{"temperature": o.temperature},
	}

	var out strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrOracleInvoke, err)
	}
	return out.String(), nil
}
