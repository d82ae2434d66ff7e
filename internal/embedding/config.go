// Package embedding provides text embedding providers behind a single
// interface: Gemini, OpenAI-compatible services and an offline character
// n-gram embedder.
package embedding

import "fmt"

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderGemini is the Google Gemini embedding API
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is any OpenAI-compatible embeddings endpoint
	ProviderOpenAI Provider = "openai"
	// ProviderNGram is the offline hashed character n-gram embedder
	ProviderNGram Provider = "ngram"
)

// ParseProvider converts a string into a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderGemini, ProviderOpenAI, ProviderNGram:
		return p, nil
	}
	return "", fmt.Errorf("unknown embedding provider %q", s)
}

// Config holds the embedding configuration
type Config struct {
	Provider  Provider
	Model     string
	BaseURL   string
	APIKey    string
	BatchSize int
	Dimension int // n-gram embedder only
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:  ProviderGemini,
		Model:     "text-embedding-004",
		BatchSize: 100,
	}
}

// DefaultOpenAIConfig returns the default OpenAI-compatible configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider:  ProviderOpenAI,
		Model:     "text-embedding-3-small",
		BatchSize: 500,
	}
}

// DefaultNGramConfig returns the offline n-gram configuration
func DefaultNGramConfig() *Config {
	return &Config{
		Provider:  ProviderNGram,
		Model:     "char-ngram",
		BatchSize: 500,
		Dimension: DefaultNGramDimension,
	}
}

// DefaultFor returns the default configuration of a provider.
func DefaultFor(p Provider) *Config {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderNGram:
		return DefaultNGramConfig()
	default:
		return DefaultGeminiConfig()
	}
}

// WithModel returns a copy of the Config using model
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}
