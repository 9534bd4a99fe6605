package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiEmbedder generates embeddings via the Gemini API.
//
// gemini-embedding-001 outputs 3072 dimensions by default but supports
// truncation via OutputDimensionality (Matryoshka Representation Learning),
// so the requested dimension is pinned per call.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dim    int32
}

// NewGeminiEmbedder creates an embedder backed by the Gemini embedding API.
// The API key is read from the GEMINI_API_KEY environment variable by the
// genai client.
func NewGeminiEmbedder(ctx context.Context, model string, dim int) (*GeminiEmbedder, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiEmbedder{client: client, model: model, dim: int32(dim)}, nil
}

// Embed generates the embedding for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for a batch of texts in a single call.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no input texts", ErrEmbeddingService)
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	dim := e.dim
	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("%w: nil embedding at index %d", ErrEmbeddingService, i)
		}
		vectors[i] = emb.Values
	}

	if err := checkShape(vectors, len(texts), int(e.dim)); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Dimension returns the configured vector dimension.
func (e *GeminiEmbedder) Dimension() int {
	return int(e.dim)
}
