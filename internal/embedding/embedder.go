package embedding

import (
	"context"
	"fmt"
	"math"
)

// Embedder generates vector embeddings from text.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single text.
	EmbedText(ctx context.Context, text string) ([]float32, error)
	// EmbedTexts embeds texts in order; the result has one vector per input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// Name identifies provider and model, e.g. "gemini/text-embedding-004".
	Name() string
	// Close releases any resources held by the embedder
	Close() error
}

// New creates an embedder based on configuration
func New(ctx context.Context, config *Config) (Embedder, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Provider {
	case ProviderGemini:
		return NewGeminiEmbedder(ctx, config)
	case ProviderOpenAI:
		return NewOpenAIEmbedder(config)
	case ProviderNGram:
		return NewNGramEmbedder(config.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", config.Provider)
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MaxCosine returns the highest similarity of v to any vector in set.
func MaxCosine(v []float32, set [][]float32) float64 {
	best := 0.0
	for i, e := range set {
		s := Cosine(v, e)
		if i == 0 || s > best {
			best = s
		}
	}
	return best
}
