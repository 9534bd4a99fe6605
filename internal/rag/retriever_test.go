package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/localrag/localrag/internal/embedding"
	"github.com/localrag/localrag/internal/knowledge"
	"github.com/localrag/localrag/internal/testutil"
)

// seedStore inserts facts at fixed positions on a 3-dimension axis grid so
// distances to a query are easy to reason about.
func seedStore(t *testing.T) (*memStore, *testutil.Embedder) {
	t.Helper()

	store := newMemStore(3)
	emb := testutil.NewEmbedder(3)
	emb.Vectors = map[string][]float32{
		"cats are mammals":   {1, 0, 0},
		"dogs are mammals":   {0.9, 0.1, 0},
		"rockets use thrust": {0, 0, 1},
		"what are cats?":     {1, 0.05, 0},
	}

	ctx := context.Background()
	texts := []string{"cats are mammals", "dogs are mammals", "rockets use thrust"}
	for i, text := range texts {
		fact := knowledge.Fact{ID: int32(i), Text: text, Embedding: emb.Vectors[text]}
		if err := store.Insert(ctx, fact); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	return store, emb
}

func TestRetrieve(t *testing.T) {
	store, emb := seedStore(t)
	r := NewRetriever(store, emb)

	texts, err := r.Retrieve(context.Background(), "what are cats?", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	want := []string{"cats are mammals", "dogs are mammals"}
	if len(texts) != len(want) {
		t.Fatalf("got %d texts, want %d", len(texts), len(want))
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("texts[%d] = %q, want %q (nearest-first order)", i, texts[i], want[i])
		}
	}
}

func TestRetrieve_KLargerThanStore(t *testing.T) {
	store, emb := seedStore(t)
	r := NewRetriever(store, emb)

	texts, err := r.Retrieve(context.Background(), "what are cats?", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(texts) != 3 {
		t.Errorf("got %d texts, want all 3 stored facts", len(texts))
	}
}

func TestRetrieve_DefaultK(t *testing.T) {
	store, emb := seedStore(t)
	r := NewRetriever(store, emb)

	texts, err := r.Retrieve(context.Background(), "what are cats?", 0)
	if err != nil {
		t.Fatalf("Retrieve with k=0: %v", err)
	}
	// Default width is 5; the store only has 3.
	if len(texts) != 3 {
		t.Errorf("got %d texts, want 3", len(texts))
	}
}

func TestRetrieve_EmptyQuestion(t *testing.T) {
	store, emb := seedStore(t)
	r := NewRetriever(store, emb)

	if _, err := r.Retrieve(context.Background(), "", 5); err == nil {
		t.Error("expected error for empty question")
	}
}

func TestRetrieve_EmbedderErrorPassesThrough(t *testing.T) {
	store, _ := seedStore(t)
	emb := testutil.NewEmbedder(3)
	emb.Err = fmt.Errorf("%w: timeout", embedding.ErrEmbeddingService)
	r := NewRetriever(store, emb)

	_, err := r.Retrieve(context.Background(), "what are cats?", 5)
	if !errors.Is(err, embedding.ErrEmbeddingService) {
		t.Errorf("expected ErrEmbeddingService passed through, got %v", err)
	}
}

func TestRetrieve_StoreErrorPassesThrough(t *testing.T) {
	store, emb := seedStore(t)
	store.nearestErr = fmt.Errorf("%w: corrupt row", knowledge.ErrDimensionMismatch)
	r := NewRetriever(store, emb)

	_, err := r.Retrieve(context.Background(), "what are cats?", 5)
	if !errors.Is(err, knowledge.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch passed through, got %v", err)
	}
}
