package rag

import (
	"context"
	"fmt"

	"github.com/localrag/localrag/internal/embedding"
	"github.com/localrag/localrag/internal/knowledge"
)

// defaultTopK is the retrieval width used when the caller passes k <= 0.
const defaultTopK = 5

// SearchStore is the subset of store operations the Retriever needs.
type SearchStore interface {
	Nearest(ctx context.Context, vec []float32, k int) ([]knowledge.Fact, error)
}

// Retriever answers "which stored facts are closest to this question".
type Retriever struct {
	store    SearchStore
	embedder embedding.Embedder
}

// NewRetriever creates a Retriever.
func NewRetriever(store SearchStore, embedder embedding.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve embeds the question and returns the texts of the up-to-k nearest
// facts, nearest first. Fewer than k facts in the store is not an error.
// k <= 0 selects the default width of 5.
//
// Retrieve has no failure modes of its own; errors from the embedder or the
// store pass through so callers can branch on the failure kind.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]string, error) {
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	if k <= 0 {
		k = defaultTopK
	}

	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	facts, err := r.store.Nearest(ctx, vec, k)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(facts))
	for i, f := range facts {
		texts[i] = f.Text
	}
	return texts, nil
}
