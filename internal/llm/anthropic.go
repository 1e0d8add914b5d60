package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

type AnthropicClient struct {
	client      anthropic.Client
	model       string
	system      string
	temperature float32
}

// NewAnthropicClient talks to the Anthropic Messages API. The SDK's own
// retries are disabled; a failed lookup is reported to the user instead.
func NewAnthropicClient(apiKey, baseURL, model, system string, temperature float32) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       model,
		system:      system,
		temperature: temperature,
	}
}

func (c *AnthropicClient) Explain(ctx context.Context, word string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: c.system}},
		Temperature: anthropic.Float(float64(c.temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(word)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", fmt.Errorf("empty response for %q", word)
	}
	return content, nil
}
