package protocol

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

type Kind int

const (
	KindUnparsed Kind = iota
	KindFinalAnswer
	KindToolInvocation
)

func (k Kind) String() string {
	switch k {
	case KindFinalAnswer:
		return "final_answer"
	case KindToolInvocation:
		return "tool_invocation"
	default:
		return "unparsed"
	}
}

var (
	finalTag = regexp.MustCompile(`(?s)<final>(.*?)</final>`)
	toolTag  = regexp.MustCompile(`(?s)<tool>(.*?)</tool>`)
)

// Completion is one classified oracle output. Text is set for final answers
// and unparsed output. For tool invocations either Call or Err is set.
type Completion struct {
	Kind Kind
	Text string
	Call contractx.ToolCall
	Err  error
}

// Classify applies the two-tag protocol. A final answer wins over a tool
// marker; output with neither marker is returned as Unparsed.
func Classify(output string) Completion {
	if m := finalTag.FindStringSubmatch(output); m != nil {
		return Completion{Kind: KindFinalAnswer, Text: strings.TrimSpace(m[1])}
	}
	if m := toolTag.FindStringSubmatch(output); m != nil {
		call, err := ParseToolCall(m[1])
		return Completion{Kind: KindToolInvocation, Call: call, Err: err}
	}
	return Completion{Kind: KindUnparsed, Text: output}
}

func ParseToolCall(payload string) (contractx.ToolCall, error) {
	var call contractx.ToolCall
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &call); err != nil {
		return contractx.ToolCall{}, fmt.Errorf("%w: invalid JSON: %v", contractx.ErrToolPayload, err)
	}
	call.Name = strings.TrimSpace(call.Name)
	if call.Name == "" {
		return contractx.ToolCall{}, fmt.Errorf("%w: tool name is missing", contractx.ErrToolPayload)
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	return call, nil
}

func FormatFinal(text string) string {
	return "<final>" + text + "</final>"
}

func FormatToolCall(call contractx.ToolCall) (string, error) {
	raw, err := json.Marshal(call)
	if err != nil {
		return "", err
	}
	return "<tool>" + string(raw) + "</tool>", nil
}
