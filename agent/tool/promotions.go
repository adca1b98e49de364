package tool

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	"github.com/tanpawarit/promo-agent/agent/retrieval"
)

const (
	ArgUserLat    = "user_lat"
	ArgUserLng    = "user_lng"
	ArgUserID     = "user_id"
	ArgRadiusKM   = "radius_km"
	ArgMaxResults = "max_results"
	ArgMaxPrice   = "max_price"
	ArgCategory   = "category"
	ArgNameFilter = "name_filter"
)

type Retriever interface {
	Retrieve(ctx context.Context, req retrieval.Request) contractx.ToolResult
}

type promotionsArgs struct {
	UserLat    *float64 `mapstructure:"user_lat"`
	UserLng    *float64 `mapstructure:"user_lng"`
	UserID     *int64   `mapstructure:"user_id"`
	RadiusKM   *float64 `mapstructure:"radius_km"`
	MaxResults *int     `mapstructure:"max_results"`
	MaxPrice   *float64 `mapstructure:"max_price"`
	Category   *string  `mapstructure:"category"`
	NameFilter *string  `mapstructure:"name_filter"`
}

// BestPromotions ranks active promotions near the user by price and distance.
type BestPromotions struct {
	retriever Retriever
}

func NewBestPromotions(retriever Retriever) *BestPromotions {
	return &BestPromotions{retriever: retriever}
}

func (t *BestPromotions) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolBestPromotions,
		Desc: "Find the best active promotions near the user, ranked by price then distance. Location comes from user_lat/user_lng or the registered address of user_id.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			ArgUserLat:    {Type: schema.Number, Desc: "User latitude in decimal degrees"},
			ArgUserLng:    {Type: schema.Number, Desc: "User longitude in decimal degrees"},
			ArgUserID:     {Type: schema.Integer, Desc: "User id whose registered address is used as location"},
			ArgRadiusKM:   {Type: schema.Number, Desc: "Search radius in km (default 10)"},
			ArgMaxResults: {Type: schema.Integer, Desc: "Maximum number of results (default 10)"},
			ArgMaxPrice:   {Type: schema.Number, Desc: "Maximum promotional price, inclusive"},
			ArgCategory:   {Type: schema.String, Desc: "Exact category name"},
			ArgNameFilter: {Type: schema.String, Desc: "Part of the product name"},
		}),
	}
}

func (t *BestPromotions) Invoke(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	var in promotionsArgs
	if err := decodeArgs(ToolBestPromotions, args, &in); err != nil {
		return contractx.ToolResult{}, err
	}

	return t.retriever.Retrieve(ctx, retrieval.Request{
		UserLat:    in.UserLat,
		UserLng:    in.UserLng,
		UserID:     in.UserID,
		RadiusKM:   in.RadiusKM,
		MaxResults: in.MaxResults,
		MaxPrice:   in.MaxPrice,
		Category:   deref(in.Category),
		NameFilter: deref(in.NameFilter),
	}), nil
}

// NeedsIdentity reports whether a best_promotions call carries neither a
// full coordinate pair nor a user id.
func NeedsIdentity(args map[string]any) bool {
	hasCoords := args[ArgUserLat] != nil && args[ArgUserLng] != nil
	return !hasCoords && args[ArgUserID] == nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
