package embed

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	lawerr "github.com/tomwolfe/lawsage/internal/errors"
)

// OpenAIEmbedder generates embeddings through an OpenAI-compatible API
// (OpenAI itself, Ollama, LM Studio, vLLM). Dimensions are probed lazily on
// the first request because the API does not advertise them.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	model      string
	dimensions int
	logger     *slog.Logger
}

// OpenAIConfig configures the embedding client.
type OpenAIConfig struct {
	// BaseURL is the API endpoint (e.g., "http://localhost:11434/v1").
	BaseURL string
	// Token is the API key. Local services accept any non-empty value.
	Token string
	// Model is the embedding model name.
	Model string
}

// NewOpenAIEmbedder creates an embedder backed by an OpenAI-compatible API.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	token := cfg.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, lawerr.ServiceError(lawerr.ErrCodeEmbedderUnavailable,
			"create embedding client: "+err.Error(), err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, lawerr.ServiceError(lawerr.ErrCodeEmbedderUnavailable,
			"wrap embedding client: "+err.Error(), err)
	}

	return &OpenAIEmbedder{
		embedder: embedder,
		model:    cfg.Model,
		logger:   slog.Default().With(slog.String("component", "openai-embedder")),
	}, nil
}

// Embed generates an embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Warn("embedding request failed",
			slog.Int("count", len(texts)),
			slog.String("error", err.Error()))
		return nil, lawerr.ServiceError(lawerr.ErrCodeEmbedderUnavailable,
			"embed documents: "+err.Error(), err)
	}

	if e.dimensions == 0 && len(vecs) > 0 {
		e.dimensions = len(vecs[0])
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension, or 0 before the first request.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the model identifier.
func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// Close is a no-op; the underlying HTTP client has no resources to release.
func (e *OpenAIEmbedder) Close() error {
	return nil
}

var _ Embedder = (*OpenAIEmbedder)(nil)
