package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	toolsUsed := in.ToolsUsed
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	return GraphOutput{Reply: contractx.Reply{Text: in.Reply, ToolsUsed: toolsUsed}}, nil
}
