package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

const (
	ToolBestPromotions = "best_promotions"
	ToolSQLQuery       = "sql_query"
	ToolFAQAnswer      = "faq_answer"
)

// Tool is one registered operation. Every tool reports through the same
// ToolResult shape; a returned error means the tool itself failed.
type Tool interface {
	Info() *schema.ToolInfo
	Invoke(ctx context.Context, args map[string]any) (contractx.ToolResult, error)
}

var (
	_ Tool = (*BestPromotions)(nil)
	_ Tool = (*SQLQuery)(nil)
	_ Tool = (*FAQAnswer)(nil)
)

type Catalog struct {
	tools  []Tool
	byName map[string]Tool
}

func NewCatalog(tools ...Tool) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t == nil || t.Info() == nil {
			return nil, fmt.Errorf("%w: nil tool", contractx.ErrValidation)
		}
		name := strings.TrimSpace(t.Info().Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("%w: tool=%s registered twice", contractx.ErrValidation, name)
		}
		c.byName[name] = t
		c.tools = append(c.tools, t)
	}
	return c, nil
}

func (c *Catalog) Lookup(name string) (Tool, bool) {
	t, ok := c.byName[name]
	return t, ok
}

func (c *Catalog) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(c.tools))
	for _, t := range c.tools {
		infos = append(infos, t.Info())
	}
	return infos
}

// Execute runs the named tool. Unknown names yield ErrUnknownTool; a panic
// inside the tool is converted into an error.
func (c *Catalog) Execute(ctx context.Context, call contractx.ToolCall) (result contractx.ToolResult, err error) {
	t, ok := c.Lookup(call.Name)
	if !ok {
		return contractx.ToolResult{}, fmt.Errorf("%w: %s", contractx.ErrUnknownTool, call.Name)
	}

	defer func() {
		if r := recover(); r != nil {
			result = contractx.ToolResult{}
			err = fmt.Errorf("tool=%s panicked: %v", call.Name, r)
		}
	}()

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	return t.Invoke(ctx, args)
}
