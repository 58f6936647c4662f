package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"crypto-chatbot/api/coingecko"
	"crypto-chatbot/api/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
)

const systemPrompt = `You are an expert cryptocurrency assistant. Your job is to help users get cryptocurrency information using real data from CoinGecko.

IMPORTANT RULES:
1. NEVER invent prices or crypto data. ALWAYS use the available tools to get real data.
2. If the user asks about prices, market cap, or any crypto data, you MUST use a tool.
3. If the user asks for the top 10, the most valuable, or most important cryptos, use getTopCryptos.
4. If the user asks about a specific crypto (bitcoin, eth, solana, etc.), use getCryptoByQuery.
5. If the user asks about cryptos of a category (memes, defi, layer 1, gaming, AI, etc.), use getCryptosByCategory.
6. You may answer general crypto questions without tools (concepts, what a blockchain is, etc.)
7. Always mention that price data comes from CoinGecko.
8. Do not mention that you are an AI or language model; stay in your role as a crypto information assistant and keep answers concise.`

// Agent wraps a react agent whose tools query CoinGecko. Tool execution and
// final-answer streaming are driven by the caller through Stream.
type Agent struct {
	ra *react.Agent
}

func NewAgent(ctx context.Context, cfg *config.Config, gecko *coingecko.Client) (*Agent, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.GroqBaseURL,
		APIKey:  cfg.GroqAPIKey,
		Model:   cfg.GroqModel,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %v", err)
	}

	ra, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          10,
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: []tool.BaseTool{
				NewTopCryptosTool(gecko),
				NewCryptoQueryTool(gecko),
				NewCategoryTool(gecko),
			},
		},
		StreamToolCallChecker: toolCallChecker,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating react agent: %v", err)
	}

	return &Agent{ra: ra}, nil
}

// Stream runs the agent over the conversation and streams the assistant
// reply. The system prompt is prepended on every call.
func (a *Agent) Stream(ctx context.Context, messages []*schema.Message, opts ...agent.AgentOption) (*schema.StreamReader[*schema.Message], error) {
	withSystem := append([]*schema.Message{schema.SystemMessage(systemPrompt)}, messages...)
	return a.ra.Stream(ctx, withSystem, opts...)
}

func toolCallChecker(ctx context.Context, sr *schema.StreamReader[*schema.Message]) (bool, error) {
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if len(msg.ToolCalls) > 0 {
			return true, nil
		}
	}
}
