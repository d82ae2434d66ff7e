package embedding

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder implements Embedder using OpenAI-compatible embedding APIs.
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
	model    string
	logger   *slog.Logger
}

// NewOpenAIEmbedder creates an embedder for an OpenAI-compatible endpoint. A
// missing API key is sent as "none" for local services without authentication.
func NewOpenAIEmbedder(config *Config) (*OpenAIEmbedder, error) {
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, &APIError{Provider: string(ProviderOpenAI), Op: "client", Cause: err}
	}

	embedOpts := []embeddings.Option{embeddings.WithStripNewLines(true)}
	if config.BatchSize > 0 {
		embedOpts = append(embedOpts, embeddings.WithBatchSize(config.BatchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, embedOpts...)
	if err != nil {
		return nil, &APIError{Provider: string(ProviderOpenAI), Op: "client", Cause: err}
	}

	return &OpenAIEmbedder{
		embedder: embedder,
		model:    config.Model,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// Name implements Embedder.
func (e *OpenAIEmbedder) Name() string {
	return string(ProviderOpenAI) + "/" + e.model
}

// EmbedText generates a vector embedding for a single text string.
func (e *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, &APIError{Provider: string(ProviderOpenAI), Op: "batch embed", Cause: err}
	}
	return vectors, nil
}

// Close implements Embedder.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
