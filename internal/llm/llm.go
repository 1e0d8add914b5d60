// Package llm asks a chat-completion model for dictionary entries.
package llm

import (
	"context"
	"fmt"

	"github.com/drizzlenote/chatbot/internal/config"
)

// Explainer turns a word into a dictionary-style explanation.
type Explainer interface {
	Explain(ctx context.Context, word string) (string, error)
}

// New builds the Explainer selected by cfg.LLMProvider.
func New(cfg *config.Config) (Explainer, error) {
	system := SystemPrompt(cfg.Variant)

	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when using openai provider")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, system, cfg.LLMTemperature), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when using anthropic provider")
		}
		return NewAnthropicClient(cfg.AnthropicAPIKey, "", cfg.AnthropicModel, system, cfg.LLMTemperature), nil
	case "ollama":
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, system), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", cfg.LLMProvider)
	}
}
