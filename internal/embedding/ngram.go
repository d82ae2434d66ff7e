package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultNGramDimension is the vector size of the n-gram embedder.
const DefaultNGramDimension = 512

// NGramEmbedder hashes character trigrams and whole words into a fixed-size
// vector. It needs no network access and is deterministic, so phrases that
// share spelling end up close to each other.
type NGramEmbedder struct {
	dim int
}

// NewNGramEmbedder creates an n-gram embedder; dim <= 0 selects the default.
func NewNGramEmbedder(dim int) *NGramEmbedder {
	if dim <= 0 {
		dim = DefaultNGramDimension
	}
	return &NGramEmbedder{dim: dim}
}

// Name implements Embedder.
func (e *NGramEmbedder) Name() string {
	return fmt.Sprintf("%s/char-ngram-%d", ProviderNGram, e.dim)
}

// EmbedText implements Embedder.
func (e *NGramEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts implements Embedder.
func (e *NGramEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(t)
	}
	return out, nil
}

// Close implements Embedder.
func (e *NGramEmbedder) Close() error { return nil }

func (e *NGramEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	words := strings.Fields(strings.ToLower(text))
	for _, w := range words {
		e.add(vec, "w:"+w, 2)
		padded := []rune("^" + w + "$")
		for i := 0; i+3 <= len(padded); i++ {
			e.add(vec, string(padded[i:i+3]), 1)
		}
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= norm
	}
	return vec
}

func (e *NGramEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum32()
	idx := int(sum % uint32(e.dim))
	if sum&(1<<31) != 0 {
		vec[idx] -= weight
	} else {
		vec[idx] += weight
	}
}
