package orchestratornode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	protocolx "github.com/tanpawarit/promo-agent/agent/protocol"
	toolx "github.com/tanpawarit/promo-agent/agent/tool"
)

// Dispatcher executes one tool call by name.
type Dispatcher interface {
	Execute(ctx context.Context, call contractx.ToolCall) (contractx.ToolResult, error)
}

type Policy struct {
	MaxIterations int
	DegradedReply string
}

type toolTurn struct {
	Name   string                `json:"name,omitempty"`
	Result *contractx.ToolResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Reason drives the oracle until it produces a final answer or the
// iteration budget runs out.
func Reason(
	ctx context.Context,
	in *GraphState,
	oracle contractx.Oracle,
	dispatcher Dispatcher,
	policy Policy,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	for in.Iterations < policy.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in.Iterations++

		output, err := oracle.Complete(ctx, in.Transcript)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warn().Err(err).
				Str("session_id", in.SessionID).
				Int("iteration", in.Iterations).
				Msg("oracle completion failed")
			continue
		}

		completion := protocolx.Classify(output)
		log.Debug().
			Str("session_id", in.SessionID).
			Int("iteration", in.Iterations).
			Str("kind", completion.Kind.String()).
			Msg("oracle completion classified")

		switch completion.Kind {
		case protocolx.KindFinalAnswer:
			in.appendTurn(contractx.RoleAssistant, protocolx.FormatFinal(completion.Text))
			in.Reply = completion.Text
			return in, nil
		case protocolx.KindToolInvocation:
			in.appendTurn(contractx.RoleAssistant, output)
			if completion.Err != nil {
				in.appendToolTurn(toolTurn{Error: completion.Err.Error()})
				continue
			}
			if err := dispatch(ctx, in, dispatcher, completion.Call); err != nil {
				return nil, err
			}
		default:
			in.appendTurn(contractx.RoleAssistant, output)
			in.Reply = output
			return in, nil
		}
	}

	log.Warn().
		Str("session_id", in.SessionID).
		Int("iterations", in.Iterations).
		Msg("iteration budget exhausted")
	in.appendTurn(contractx.RoleAssistant, protocolx.FormatFinal(policy.DegradedReply))
	in.Reply = policy.DegradedReply
	in.Degraded = true
	return in, nil
}

func dispatch(ctx context.Context, in *GraphState, dispatcher Dispatcher, call contractx.ToolCall) error {
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	if call.Name == toolx.ToolBestPromotions && in.UserID != nil && toolx.NeedsIdentity(call.Args) {
		call.Args[toolx.ArgUserID] = *in.UserID
	}

	result, err := dispatcher.Execute(ctx, call)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, contractx.ErrUnknownTool) {
			in.appendToolTurn(toolTurn{Error: err.Error()})
			return nil
		}
		log.Warn().Err(err).
			Str("session_id", in.SessionID).
			Str("tool", call.Name).
			Msg("tool execution failed")
		in.ToolsUsed = append(in.ToolsUsed, call.Name)
		in.appendToolTurn(toolTurn{Name: call.Name, Error: err.Error()})
		return nil
	}

	log.Info().
		Str("session_id", in.SessionID).
		Str("tool", call.Name).
		Int("status", result.Status).
		Bool("ok", result.OK).
		Msg("tool executed")
	in.ToolsUsed = append(in.ToolsUsed, call.Name)
	in.appendToolTurn(toolTurn{Name: call.Name, Result: &result})
	return nil
}

func (s *GraphState) appendTurn(role contractx.Role, content string) {
	s.Transcript = append(s.Transcript, contractx.Turn{Role: role, Content: content})
}

func (s *GraphState) appendToolTurn(turn toolTurn) {
	raw, err := json.Marshal(turn)
	if err != nil {
		raw, _ = json.Marshal(toolTurn{Name: turn.Name, Error: err.Error()})
	}
	s.appendTurn(contractx.RoleTool, string(raw))
}
