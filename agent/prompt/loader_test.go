package prompt

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestRenderSystemListsTools(t *testing.T) {
	t.Parallel()

	tools := []*schema.ToolInfo{
		{
			Name: "best_promotions",
			Desc: "find promotions",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"radius_km": {Type: schema.Number, Desc: "radius"},
			}),
		},
		{Name: "faq_answer", Desc: "answer faq"},
	}

	out, err := RenderSystem(tools, "best_promotions")
	if err != nil {
		t.Fatalf("RenderSystem() error = %v", err)
	}

	for _, want := range []string{
		"- best_promotions: find promotions",
		"radius_km",
		"- faq_answer: answer faq",
		"priorize 'best_promotions'",
		`<tool>{"name":"NOME","args":{...}}</tool>`,
		"<final>texto</final>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("RenderSystem() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderSystemSkipsNilTools(t *testing.T) {
	t.Parallel()

	out, err := RenderSystem([]*schema.ToolInfo{nil}, "x")
	if err != nil {
		t.Fatalf("RenderSystem() error = %v", err)
	}
	if strings.Contains(out, "argumentos") {
		t.Fatalf("RenderSystem() rendered a nil tool:\n%s", out)
	}
}
