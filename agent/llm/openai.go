package llm

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var _ contractx.Oracle = (*OpenAIOracle)(nil)

type OpenAIOracle struct {
	client      *openaisdk.Client
	model       string
	temperature float64
	maxTokens   int64
}

func NewOpenAIOracle(client *openaisdk.Client, model string, temperature float32, maxTokens int) *OpenAIOracle {
	return &OpenAIOracle{
		client:      client,
		model:       model,
		temperature: float64(temperature),
		maxTokens:   int64(maxTokens),
	}
}

func (o *OpenAIOracle) Complete(ctx context.Context, transcript contractx.Transcript) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(o.model),
		Messages:    ToOpenAIMessages(transcript),
		Temperature: openaisdk.Float(o.temperature),
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(o.maxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrOracleInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", contractx.ErrOracleInvoke)
	}
	return resp.Choices[0].Message.Content, nil
}
