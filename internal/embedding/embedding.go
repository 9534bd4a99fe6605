// Package embedding wraps text-embedding services behind the Embedder
// interface. Implementations convert text strings into fixed-dimension
// float32 vectors, preserving input order.
//
// Embedders do not retry and do not cache: every call recomputes, and any
// failure is surfaced immediately so the caller can decide on policy.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmbeddingService indicates the embedding service was unreachable,
// timed out, or returned a malformed result (empty response, wrong vector
// count, or wrong vector dimension).
var ErrEmbeddingService = errors.New("embedding service error")

// Embedder generates vector embeddings for text.
//
// Implementations must return exactly one vector per input, in input order,
// each of exactly Dimension() elements, or fail with ErrEmbeddingService.
type Embedder interface {
	// Embed generates the embedding for a single text (query-time path).
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for a batch of texts in one call
	// (preferred during ingestion; reduces round trips).
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed vector dimension D of this embedder's model.
	Dimension() int
}

// checkShape validates an embedding response against the request:
// one vector per input, every vector of dimension dim.
func checkShape(vectors [][]float32, inputs, dim int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("%w: got %d vectors for %d inputs", ErrEmbeddingService, len(vectors), inputs)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d",
				ErrEmbeddingService, i, len(v), dim)
		}
	}
	return nil
}
