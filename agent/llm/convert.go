package llm

import (
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"
	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

// Hosted chat APIs only accept tool messages that answer a native tool call,
// so tool-result turns travel as user messages with this prefix.
const toolResultPrefix = "Tool result: "

func ToEinoMessages(transcript contractx.Transcript) []*schema.Message {
	out := make([]*schema.Message, 0, len(transcript))
	for _, turn := range transcript {
		switch turn.Role {
		case contractx.RoleSystem:
			out = append(out, schema.SystemMessage(turn.Content))
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(turn.Content, nil))
		case contractx.RoleTool:
			out = append(out, schema.UserMessage(toolResultPrefix+turn.Content))
		default:
			out = append(out, schema.UserMessage(turn.Content))
		}
	}
	return out
}

func ToOpenAIMessages(transcript contractx.Transcript) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(transcript))
	for _, turn := range transcript {
		switch turn.Role {
		case contractx.RoleSystem:
			out = append(out, openaisdk.SystemMessage(turn.Content))
		case contractx.RoleAssistant:
			out = append(out, openaisdk.AssistantMessage(turn.Content))
		case contractx.RoleTool:
			out = append(out, openaisdk.UserMessage(toolResultPrefix+turn.Content))
		default:
			out = append(out, openaisdk.UserMessage(turn.Content))
		}
	}
	return out
}

// ToOllamaMessages keeps the tool role, which Ollama accepts without a call id.
func ToOllamaMessages(transcript contractx.Transcript) []api.Message {
	out := make([]api.Message, 0, len(transcript))
	for _, turn := range transcript {
		out = append(out, api.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return out
}
