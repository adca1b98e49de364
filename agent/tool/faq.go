package tool

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

type faqEntry struct {
	keys   []string
	answer string
}

const faqFocusAnswer = "I am a promotions agent: I answer quick questions about the system and find nearby deals. I do not answer outside that topic."

var faqEntries = []faqEntry{
	{
		keys:   []string{"what is the system", "o que é o sistema"},
		answer: "We find active promotions near you and rank them by price and distance.",
	},
	{
		keys:   []string{"how are promotions chosen", "como escolhem as promocoes"},
		answer: "We keep promotions valid today, apply a radius around your location and order by lowest price, breaking ties by distance.",
	},
	{
		keys:   []string{"how do i set my location", "como informar minha localizacao"},
		answer: "Your location comes from your registered address. Register an address in your profile to get local results.",
	},
	{
		keys:   []string{"how do i filter by category", "como filtrar por categoria"},
		answer: "Ask for the category by name, for example dairy, drinks or hygiene.",
	},
	{
		keys:   []string{"focus", "foco"},
		answer: faqFocusAnswer,
	},
}

type faqArgs struct {
	Question string `mapstructure:"question"`
}

// FAQAnswer answers fixed questions about the system.
type FAQAnswer struct{}

func NewFAQAnswer() *FAQAnswer {
	return &FAQAnswer{}
}

func (t *FAQAnswer) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolFAQAnswer,
		Desc: "Answer frequently asked questions about the promotions system.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"question": {Type: schema.String, Desc: "The user's question", Required: true},
		}),
	}
}

func (t *FAQAnswer) Invoke(_ context.Context, args map[string]any) (contractx.ToolResult, error) {
	var in faqArgs
	if err := decodeArgs(ToolFAQAnswer, args, &in); err != nil {
		return contractx.ToolResult{}, err
	}

	q := strings.ToLower(in.Question)
	for _, entry := range faqEntries {
		for _, key := range entry.keys {
			if strings.Contains(q, key) {
				return contractx.Success(map[string]string{"question": key, "answer": entry.answer}), nil
			}
		}
	}
	return contractx.Success(map[string]string{"answer": faqFocusAnswer}), nil
}
