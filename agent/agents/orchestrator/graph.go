package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/promo-agent/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileRunGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadTranscript(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("prepare_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PrepareTranscript(in, o.systemPrompt)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node prepare_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("reason",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Reason(ctx, in, o.oracle, o.tools, o.policy)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reason: %w", err)
	}

	if err := graph.AddLambdaNode("save_transcript",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveTranscript(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_transcript: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_transcript"},
		{"load_transcript", "prepare_transcript"},
		{"prepare_transcript", "reason"},
		{"reason", "save_transcript"},
		{"save_transcript", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.run"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
