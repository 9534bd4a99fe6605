package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/localrag/localrag/internal/embedding"
	"github.com/localrag/localrag/internal/knowledge"
	"github.com/localrag/localrag/internal/log"
	"github.com/localrag/localrag/internal/testutil"
)

func TestIngest(t *testing.T) {
	store := newMemStore(4)
	emb := testutil.NewEmbedder(4)
	ing := NewIngestor(store, emb, log.NewNop())

	texts := []string{"cats are mammals", "rockets use thrust", "water is wet"}
	if err := ing.Ingest(context.Background(), texts); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	stored := store.storedTexts()
	if len(stored) != len(texts) {
		t.Fatalf("stored %d facts, want %d", len(stored), len(texts))
	}
	// IDs are batch positions.
	for i, text := range texts {
		if stored[int32(i)] != text {
			t.Errorf("fact %d = %q, want %q", i, stored[int32(i)], text)
		}
	}
}

func TestIngest_VectorTextAssociation(t *testing.T) {
	// Small batches with parallelism force out-of-order completion to be
	// possible; association must come from index tracking regardless.
	const dim = 4
	store := newMemStore(dim)
	emb := testutil.NewEmbedder(dim)
	ing := NewIngestor(store, emb, log.NewNop(), WithBatchSize(2), WithParallelism(3))

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("fact number %d", i)
	}

	if err := ing.Ingest(context.Background(), texts); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// The embedder is deterministic: re-embedding a text must match the
	// vector stored for it.
	for i, text := range texts {
		want, err := emb.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed: %v", err)
		}

		store.mu.Lock()
		got := store.facts[int32(i)].Embedding
		store.mu.Unlock()

		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("fact %d has a vector belonging to another text", i)
			}
		}
	}
}

func TestIngest_Batching(t *testing.T) {
	store := newMemStore(4)
	emb := testutil.NewEmbedder(4)
	ing := NewIngestor(store, emb, log.NewNop(), WithBatchSize(3), WithParallelism(1))

	texts := []string{"a", "b", "c", "d", "e", "f", "g"}
	if err := ing.Ingest(context.Background(), texts); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	calls := emb.Calls()
	if len(calls) != 3 {
		t.Fatalf("got %d embedding calls, want 3 (batches of 3,3,1)", len(calls))
	}

	var total int
	for _, batch := range calls {
		if len(batch) > 3 {
			t.Errorf("batch of %d exceeds batch size 3", len(batch))
		}
		total += len(batch)
	}
	if total != len(texts) {
		t.Errorf("embedded %d texts, want %d", total, len(texts))
	}
}

func TestIngest_EmbeddingFailure(t *testing.T) {
	store := newMemStore(4)
	emb := testutil.NewEmbedder(4)
	emb.Err = fmt.Errorf("%w: connection refused", embedding.ErrEmbeddingService)
	ing := NewIngestor(store, emb, log.NewNop())

	err := ing.Ingest(context.Background(), []string{"cats are mammals"})
	if !errors.Is(err, embedding.ErrEmbeddingService) {
		t.Fatalf("expected ErrEmbeddingService, got %v", err)
	}

	// Embedding happens before any insert; nothing may have been written.
	if n := len(store.storedTexts()); n != 0 {
		t.Errorf("store has %d rows after failed embedding, want 0", n)
	}
}

func TestIngest_WrongDimensionVector(t *testing.T) {
	store := newMemStore(4)
	emb := testutil.NewEmbedder(4)
	emb.Vectors = map[string][]float32{
		"bad fact": {1, 2}, // wrong dimension
	}
	ing := NewIngestor(store, emb, log.NewNop())

	err := ing.Ingest(context.Background(), []string{"good fact", "bad fact"})
	if !errors.Is(err, knowledge.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	// The failing text must not have been inserted. The preceding text may
	// be present: ingestion is documented as non-transactional.
	stored := store.storedTexts()
	for _, text := range stored {
		if text == "bad fact" {
			t.Error("wrong-dimension fact was inserted")
		}
	}
}

func TestIngest_InsertFailureAborts(t *testing.T) {
	store := newMemStore(4)
	store.insertErr = fmt.Errorf("%w: id 0", knowledge.ErrDuplicateKey)
	emb := testutil.NewEmbedder(4)
	ing := NewIngestor(store, emb, log.NewNop())

	err := ing.Ingest(context.Background(), []string{"a", "b"})
	if !errors.Is(err, knowledge.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestIngest_EmptyCorpus(t *testing.T) {
	store := newMemStore(4)
	emb := testutil.NewEmbedder(4)
	ing := NewIngestor(store, emb, log.NewNop())

	if err := ing.Ingest(context.Background(), nil); err != nil {
		t.Fatalf("Ingest(nil): %v", err)
	}
	if len(emb.Calls()) != 0 {
		t.Error("embedding service called for empty corpus")
	}
}
