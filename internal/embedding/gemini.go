package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder implements Embedder for Google Gemini
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	batchSize int
	logger    *slog.Logger
}

// NewGeminiEmbedder creates a new Gemini embedder
func NewGeminiEmbedder(ctx context.Context, config *Config) (*GeminiEmbedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	batch := config.BatchSize
	if batch <= 0 || batch > 100 {
		batch = 100
	}
	return &GeminiEmbedder{
		client:    client,
		model:     config.Model,
		batchSize: batch,
		logger:    slog.Default().With("component", "gemini-embedder"),
	}, nil
}

// Name implements Embedder.
func (e *GeminiEmbedder) Name() string {
	return string(ProviderGemini) + "/" + e.model
}

// EmbedText embeds a single text.
func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.EmbeddingModel(e.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &APIError{Provider: string(ProviderGemini), Op: "embed", Cause: err}
	}
	if res.Embedding == nil {
		return nil, &APIError{Provider: string(ProviderGemini), Op: "embed", Cause: fmt.Errorf("no embedding in response")}
	}
	return res.Embedding.Values, nil
}

// EmbedTexts embeds texts with BatchEmbedContents, at most batchSize per request.
func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		batch := em.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}
		res, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			e.logger.Error("batch embedding failed", "count", end-start, "error", err)
			return nil, &APIError{Provider: string(ProviderGemini), Op: "batch embed", Cause: err}
		}
		if len(res.Embeddings) != end-start {
			return nil, &APIError{
				Provider: string(ProviderGemini),
				Op:       "batch embed",
				Cause:    fmt.Errorf("expected %d embeddings, got %d", end-start, len(res.Embeddings)),
			}
		}
		for _, emb := range res.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}

// Close releases resources held by the client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
