// Package advisor produces a BUY/SELL recommendation for an instrument
// from an LLM.
package advisor

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog"
)

// Recommendation is the advisor's verdict for one instrument.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendSell Recommendation = "SELL"
	// Undetermined covers API failures and replies that name neither side.
	Undetermined Recommendation = "UNDETERMINED"
)

// Completer sends a prompt to an LLM and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient implements Completer over the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends a prompt and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   10,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

const analysisPrompt = `I will give you a stock ticker symbol. Analyze it and give me a final clear recommendation: either BUY or SELL (answer must be only one word - 'BUY' or 'SELL', no explanations or neutral choices).
Your analysis should include:
Technical Analysis: Focus on recent price action, moving averages, RSI, MACD, support/resistance levels, and trend direction, all within a swing trading timeframe of 1-3 months.
Fundamental Analysis: Look for indicators relevant to shorter-term market movements (e.g., earnings reports, short-term revenue/profitability trends, near-term valuation changes).
News & Sentiment: Check for any impactful recent news, controversies, or changes in sentiment that could influence the stock in the next 1-3 months.
After analyzing all three aspects, respond with only one word: either 'BUY' or 'SELL'.
The analysis is for swing trading and with a timeframe of 1-3 months.`

// Advisor asks a Completer for a one-word verdict per symbol.
type Advisor struct {
	llm Completer
	log zerolog.Logger
}

func New(llm Completer, logger zerolog.Logger) *Advisor {
	return &Advisor{llm: llm, log: logger}
}

// Recommend returns the LLM's verdict for symbol. Failures and replies
// naming neither side come back as Undetermined, never as an error;
// callers decide whether an undetermined symbol is actionable.
func (a *Advisor) Recommend(ctx context.Context, symbol string) Recommendation {
	prompt := fmt.Sprintf("%s\nStock: %s", analysisPrompt, symbol)

	reply, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.log.Error().Err(err).Str("symbol", symbol).Msg("Advisory request failed")
		return Undetermined
	}

	answer := strings.ToUpper(strings.TrimSpace(reply))
	switch {
	case strings.Contains(answer, "BUY"):
		return RecommendBuy
	case strings.Contains(answer, "SELL"):
		return RecommendSell
	default:
		a.log.Warn().Str("symbol", symbol).Str("reply", reply).Msg("Advisory reply undetermined")
		return Undetermined
	}
}
