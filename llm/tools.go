package llm

import (
	"context"
	"fmt"
	"time"

	"crypto-chatbot/api/coingecko"
	"crypto-chatbot/api/logger"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const (
	toolSource      = "coingecko"
	defaultTopCount = 10
	maxCategoryTop  = 20
)

// ToolEnvelope is the uniform result shape every tool returns to the model.
// Failures, ambiguity and not-found outcomes all come back as success:false
// with a readable message; the agent runtime never sees a raw error from a
// tool call.
type ToolEnvelope struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data,omitempty"`
	Category    string `json:"category,omitempty"`
	Suggestions any    `json:"suggestions,omitempty"`
	Error       string `json:"error,omitempty"`
	Source      string `json:"source"`
	Timestamp   string `json:"timestamp"`
}

func okEnvelope(data any) *ToolEnvelope {
	return &ToolEnvelope{
		Success:   true,
		Data:      data,
		Source:    toolSource,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func errEnvelope(msg string) *ToolEnvelope {
	return &ToolEnvelope{
		Success:   false,
		Error:     msg,
		Source:    toolSource,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type TopCryptosInput struct {
	Count int `json:"count"`
}

type CryptoQueryInput struct {
	Query string `json:"query"`
}

type CategoryInput struct {
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

// NewTopCryptosTool lists the highest market cap coins.
func NewTopCryptosTool(gecko *coingecko.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "getTopCryptos",
			Desc: "Gets the cryptocurrencies with the highest market capitalization, including name, symbol, price, market cap, 24h change and image. Defaults to the top 10.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"count": {
					Type:     "integer",
					Desc:     "Number of coins to return (default: 10)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input TopCryptosInput) (*ToolEnvelope, error) {
			count := input.Count
			if count <= 0 {
				count = defaultTopCount
			}

			cryptos, err := gecko.TopAssets(ctx, count)
			if err != nil {
				logger.Get().Error("getTopCryptos tool failed", zap.Error(err))
				return errEnvelope(err.Error()), nil
			}
			return okEnvelope(cryptos), nil
		},
	)
}

// NewCryptoQueryTool resolves a name, symbol or id to one coin.
func NewCryptoQueryTool(gecko *coingecko.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "getCryptoByQuery",
			Desc: "Looks up detailed information for a specific cryptocurrency. Accepts a name (bitcoin, ethereum), symbol (btc, eth) or CoinGecko id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     `Name, symbol or id of the coin. E.g. "bitcoin", "btc", "ethereum".`,
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input CryptoQueryInput) (*ToolEnvelope, error) {
			result, err := gecko.ResolveQuery(ctx, input.Query)
			if err != nil {
				logger.Get().Error("getCryptoByQuery tool failed",
					zap.String("query", input.Query),
					zap.Error(err))
				return errEnvelope(err.Error()), nil
			}

			if result.NotFound {
				return errEnvelope(fmt.Sprintf("No cryptocurrency matches %q. Try another name or symbol.", input.Query)), nil
			}

			if len(result.Suggestions) > 0 {
				env := errEnvelope(fmt.Sprintf("Several cryptocurrencies could match %q. Which of these did you mean?", input.Query))
				env.Suggestions = result.Suggestions
				return env, nil
			}

			return okEnvelope(result.Crypto), nil
		},
	)
}

// NewCategoryTool lists the top coins of one category.
func NewCategoryTool(gecko *coingecko.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "getCryptosByCategory",
			Desc: "Gets the most important cryptocurrencies of a category. Popular categories: meme (memecoins), defi, layer-1, layer-2, gaming, metaverse, ai, nft, stablecoins, privacy, oracle, smart-contract.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"category": {
					Type:     "string",
					Desc:     `Category name. E.g. "meme", "defi", "layer-1", "gaming", "ai".`,
					Required: true,
				},
				"limit": {
					Type:     "integer",
					Desc:     "Number of coins to return (default 10, maximum 20)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input CategoryInput) (*ToolEnvelope, error) {
			limit := input.Limit
			if limit <= 0 {
				limit = defaultTopCount
			}
			if limit > maxCategoryTop {
				limit = maxCategoryTop
			}

			result, err := gecko.ResolveCategory(ctx, input.Category, limit)
			if err != nil {
				logger.Get().Error("getCryptosByCategory tool failed",
					zap.String("category", input.Category),
					zap.Error(err))
				return errEnvelope(err.Error()), nil
			}

			if result.NotFound {
				env := errEnvelope(fmt.Sprintf("Could not find the category %q.", input.Category))
				if len(result.Suggestions) > 0 {
					env.Suggestions = result.Suggestions
				}
				return env, nil
			}

			env := okEnvelope(result.Cryptos)
			env.Category = result.CategoryName
			return env, nil
		},
	)
}
