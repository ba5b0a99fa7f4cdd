// Package llm provides the generation-service boundary: a provider-agnostic
// Service interface plus an eino-backed implementation.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/specmint/specmint/internal/config"
	"github.com/specmint/specmint/types"
)

// NewChatModel creates a ChatModel instance based on the provider
// configuration. It returns an Eino BaseChatModel usable for Generate calls.
func NewChatModel(ctx context.Context, cfg types.LLMConfig) (model.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxOutputTokens
	}
	temperature := float32(cfg.Temperature)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:       cfg.ModelName,
			APIKey:      cfg.APIKey,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})

	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.ModelName,
			MaxTokens:   maxTokens,
			Temperature: &temperature,
		})

	case config.ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.ModelName,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic, ollama)", cfg.Provider)
	}
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (string, error) {
	switch p {
	case config.ProviderOpenAI, config.ProviderAnthropic, config.ProviderOllama:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", p)
	}
}
