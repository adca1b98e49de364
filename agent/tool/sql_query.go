package tool

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

type Querier interface {
	Select(ctx context.Context, query string, params []any, maxRows int) ([]map[string]any, error)
}

type sqlQueryArgs struct {
	Query  string `mapstructure:"query"`
	Params []any  `mapstructure:"params"`
}

// SQLQuery passes read-only statements through to the database.
type SQLQuery struct {
	querier Querier
	maxRows int
}

func NewSQLQuery(querier Querier, maxRows int) *SQLQuery {
	return &SQLQuery{querier: querier, maxRows: maxRows}
}

func (t *SQLQuery) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolSQLQuery,
		Desc: "Run a read-only SELECT statement. Use ? placeholders with positional params.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query":  {Type: schema.String, Desc: "SELECT statement", Required: true},
			"params": {Type: schema.Array, Desc: "Positional parameters", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
		}),
	}
}

func (t *SQLQuery) Invoke(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	var in sqlQueryArgs
	if err := decodeArgs(ToolSQLQuery, args, &in); err != nil {
		return contractx.ToolResult{}, err
	}

	query := strings.TrimSpace(in.Query)
	if !strings.HasPrefix(strings.ToLower(query), "select") {
		return contractx.Failure(http.StatusBadRequest, "Only SELECT statements are allowed in this tool."), nil
	}

	rows, err := t.querier.Select(ctx, query, in.Params, t.maxRows)
	if err != nil {
		log.Warn().Err(err).Msg("sql_query failed")
		return contractx.Failure(http.StatusBadRequest, err.Error()), nil
	}
	return contractx.Success(rows), nil
}
