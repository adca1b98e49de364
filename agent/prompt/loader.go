package prompt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/cloudwego/eino/schema"
)

//go:embed template/system.txt
var systemRaw string

var systemTemplate = template.Must(template.New("system").Parse(systemRaw))

type toolView struct {
	Name   string
	Desc   string
	Params string
}

// RenderSystem renders the system prompt with the given tool descriptions.
// primary names the tool the agent should prefer for promotion requests.
func RenderSystem(tools []*schema.ToolInfo, primary string) (string, error) {
	views := make([]toolView, 0, len(tools))
	for _, info := range tools {
		if info == nil {
			continue
		}
		params, err := paramsJSON(info)
		if err != nil {
			return "", fmt.Errorf("render params of tool=%s: %w", info.Name, err)
		}
		views = append(views, toolView{
			Name:   info.Name,
			Desc:   strings.TrimSpace(info.Desc),
			Params: params,
		})
	}

	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, map[string]any{
		"Tools":   views,
		"Primary": primary,
	}); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func MustRenderSystem(tools []*schema.ToolInfo, primary string) string {
	out, err := RenderSystem(tools, primary)
	if err != nil {
		panic(err)
	}
	return out
}

func paramsJSON(info *schema.ToolInfo) (string, error) {
	if info.ParamsOneOf == nil {
		return "{}", nil
	}
	sc, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		return "", err
	}
	if sc == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(sc.Properties)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
