package rag

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/localrag/localrag/internal/embedding"
	"github.com/localrag/localrag/internal/knowledge"
)

// Default ingestion tuning. Batches keep embedding round trips down; the
// parallelism bound keeps a large corpus from flooding the embedding service.
const (
	DefaultBatchSize   = 16
	DefaultParallelism = 4
)

// InsertStore is the subset of store operations the Ingestor needs.
// Interfaces are defined by the consumer; knowledge.Store satisfies this.
type InsertStore interface {
	Insert(ctx context.Context, f knowledge.Fact) error
}

// IngestOption configures an Ingestor.
type IngestOption func(*Ingestor)

// WithBatchSize sets the number of texts embedded per service call.
func WithBatchSize(n int) IngestOption {
	return func(ing *Ingestor) {
		if n > 0 {
			ing.batchSize = n
		}
	}
}

// WithParallelism bounds the number of embedding calls in flight.
func WithParallelism(n int) IngestOption {
	return func(ing *Ingestor) {
		if n > 0 {
			ing.parallel = n
		}
	}
}

// Ingestor writes a corpus of fact texts into the store, one row per text,
// with ids assigned from batch position.
type Ingestor struct {
	store     InsertStore
	embedder  embedding.Embedder
	logger    *slog.Logger
	batchSize int
	parallel  int
}

// NewIngestor creates an Ingestor.
func NewIngestor(store InsertStore, embedder embedding.Embedder, logger *slog.Logger, opts ...IngestOption) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}

	ing := &Ingestor{
		store:     store,
		embedder:  embedder,
		logger:    logger,
		batchSize: DefaultBatchSize,
		parallel:  DefaultParallelism,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest embeds every text and inserts the resulting facts. The fact id is
// the text's 0-based position in the input.
//
// Embedding calls run in bounded-parallel batches; vectors are re-associated
// with their texts by index, never by arrival order. Inserts then run
// sequentially in id order so the first failure aborts with a well-defined
// prefix of rows present.
//
// Ingestion is not transactional: a failure partway leaves the rows already
// inserted in place. The caller decides whether to Reset and retry.
func (ing *Ingestor) Ingest(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.parallel)
	for start := 0; start < len(texts); start += ing.batchSize {
		start := start
		end := min(start+ing.batchSize, len(texts))
		g.Go(func() error {
			batch, err := ing.embedder.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("embedding texts %d-%d: %w", start, end-1, err)
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, text := range texts {
		fact := knowledge.Fact{
			ID:        int32(i), // #nosec G115 -- corpus sizes are far below int32 range
			Text:      text,
			Embedding: vectors[i],
		}
		if err := ing.store.Insert(ctx, fact); err != nil {
			return fmt.Errorf("inserting fact %d: %w", i, err)
		}
	}

	ing.logger.Info("corpus ingested", "facts", len(texts), "batch_size", ing.batchSize)
	return nil
}
