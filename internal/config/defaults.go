// Package config provides centralized configuration constants for specmint.
// All default values should be defined here to ensure a single source of truth.
package config

import "time"

// LLM provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = "openai"

	// ProviderOpenAI represents the OpenAI provider
	ProviderOpenAI = "openai"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic = "anthropic"

	// ProviderOllama represents the Ollama provider
	ProviderOllama = "ollama"
)

// Default model constants for each provider
const (
	// DefaultOpenAIModel is the default model for OpenAI provider
	DefaultOpenAIModel = "gpt-4o"

	// DefaultAnthropicModel is the default model for Anthropic provider
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	// DefaultOllamaModel is the default model for Ollama provider
	DefaultOllamaModel = "llama3.2"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// Chunking defaults, sized for a large-context chat model.
const (
	DefaultTargetTokensPerChunk = 12000
	DefaultMaxTokensPerChunk    = 15000
	DefaultMinEndpointsPerChunk = 2
	DefaultMaxEndpointsPerChunk = 12
)

// Rate limiting defaults. Nominal limits are derated by the safety margins
// before bucket capacities are set.
const (
	DefaultTPMLimit        = 240000
	DefaultRPMLimit        = 720
	DefaultTPMSafetyMargin = 0.85
	DefaultRPMSafetyMargin = 0.90
)

// Scheduler defaults.
const (
	DefaultWorkerCount    = 3
	DefaultPerTaskTimeout = 180 * time.Second
	DefaultGlobalTimeout  = 1800 * time.Second
	DefaultMaxRetries     = 3
)

// Generation defaults.
const (
	DefaultMaxOutputTokens = 16000
	DefaultTemperature     = 0.3
	DefaultCompression     = "balanced"
)

// Output defaults.
const (
	DefaultOutputDir  = "ui"
	DefaultOutputFile = "index.html"
)

// DefaultModelForProvider returns the default model for a given provider string.
func DefaultModelForProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return ""
	}
}
