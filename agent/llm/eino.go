package llm

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var _ contractx.Oracle = (*EinoOracle)(nil)

// EinoOracle runs the transcript through a compiled single-model graph.
type EinoOracle struct {
	runner compose.Runnable[[]*schema.Message, *schema.Message]
}

func NewEinoOracle(ctx context.Context, chatModel einomodel.BaseChatModel) (*EinoOracle, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	runner, err := compileOracleGraph(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	return &EinoOracle{runner: runner}, nil
}

func compileOracleGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add oracle model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, fmt.Errorf("add oracle edge start->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add oracle edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("oracle.complete"))
	if err != nil {
		return nil, fmt.Errorf("compile oracle graph: %w", err)
	}
	return runner, nil
}

func (o *EinoOracle) Complete(ctx context.Context, transcript contractx.Transcript) (string, error) {
	msg, err := o.runner.Invoke(ctx, ToEinoMessages(transcript))
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrOracleInvoke, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: empty completion", contractx.ErrOracleInvoke)
	}
	return msg.Content, nil
}
