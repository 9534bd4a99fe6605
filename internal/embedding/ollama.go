package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	ollama "github.com/ollama/ollama/api"
)

// OllamaEmbedder generates embeddings via a local Ollama server.
type OllamaEmbedder struct {
	client *ollama.Client
	model  string
	dim    int
}

// NewOllamaEmbedder creates an embedder backed by the Ollama embed API.
// baseURL defaults to http://localhost:11434 when empty. dim must match the
// model's output dimension (768 for nomic-embed-text).
func NewOllamaEmbedder(model, baseURL string, dim int) (*OllamaEmbedder, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// Timeouts are the caller's responsibility via ctx; the HTTP client
	// itself imposes none.
	client := ollama.NewClient(parsedURL, http.DefaultClient)

	return &OllamaEmbedder{client: client, model: model, dim: dim}, nil
}

// Embed generates the embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for a batch of texts in a single call.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no input texts", ErrEmbeddingService)
	}

	resp, err := e.client.Embed(ctx, &ollama.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}

	if err := checkShape(resp.Embeddings, len(texts), e.dim); err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

// Dimension returns the configured vector dimension.
func (e *OllamaEmbedder) Dimension() int {
	return e.dim
}
