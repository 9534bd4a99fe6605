package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/localrag/localrag/internal/embedding"
	"github.com/localrag/localrag/internal/knowledge"
	"github.com/localrag/localrag/internal/llm"
)

// Store is the full store surface the pipeline needs. knowledge.Store
// satisfies it.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, f knowledge.Fact) error
	Nearest(ctx context.Context, vec []float32, k int) ([]knowledge.Fact, error)
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Config contains all required parameters for a Pipeline.
type Config struct {
	Store     Store
	Embedder  embedding.Embedder
	Generator llm.Generator
	Logger    *slog.Logger

	TopK        int // retrieval width; <= 0 selects the default of 5
	BatchSize   int // texts per embedding call during ingestion; <= 0 selects 16
	Parallelism int // embedding calls in flight during ingestion; <= 0 selects 4
}

// validate checks required parameters.
func (cfg Config) validate() error {
	if cfg.Store == nil {
		return errors.New("store is required")
	}
	if cfg.Embedder == nil {
		return errors.New("embedder is required")
	}
	if cfg.Generator == nil {
		return errors.New("generator is required")
	}
	return nil
}

// Pipeline wires the full single-query RAG flow: ensure schema, ingest the
// corpus, retrieve context for a question, and stream a grounded answer.
type Pipeline struct {
	store     Store
	ingestor  *Ingestor
	retriever *Retriever
	answerer  *Answerer
	logger    *slog.Logger
	topK      int
}

// NewPipeline creates a Pipeline from Config.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	var ingestOpts []IngestOption
	if cfg.BatchSize > 0 {
		ingestOpts = append(ingestOpts, WithBatchSize(cfg.BatchSize))
	}
	if cfg.Parallelism > 0 {
		ingestOpts = append(ingestOpts, WithParallelism(cfg.Parallelism))
	}

	return &Pipeline{
		store:     cfg.Store,
		ingestor:  NewIngestor(cfg.Store, cfg.Embedder, logger, ingestOpts...),
		retriever: NewRetriever(cfg.Store, cfg.Embedder),
		answerer:  NewAnswerer(cfg.Generator),
		logger:    logger,
		topK:      topK,
	}, nil
}

// Ingest ensures the schema and writes the corpus into the store.
func (p *Pipeline) Ingest(ctx context.Context, corpus []string) error {
	if err := p.store.EnsureSchema(ctx); err != nil {
		return err
	}
	return p.ingestor.Ingest(ctx, corpus)
}

// Answer retrieves context for the question and streams the answer to out.
// If retrieval fails, no generation is attempted: a failed retrieval must not
// fall back to an ungrounded answer.
func (p *Pipeline) Answer(ctx context.Context, question string, out io.Writer) error {
	logger := p.logger.With("run_id", uuid.NewString())

	facts, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}
	logger.Debug("retrieved context", "facts", len(facts), "k", p.topK)

	err = p.answerer.Answer(ctx, question, facts, func(_ context.Context, token string) error {
		_, werr := io.WriteString(out, token)
		return werr
	})
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	logger.Debug("answer complete")
	return nil
}

// Run executes the whole single-query session: ingest the corpus, answer the
// question, then reset the store so consecutive runs do not accumulate
// duplicate rows. When keep is true the reset is skipped.
func (p *Pipeline) Run(ctx context.Context, corpus []string, question string, out io.Writer, keep bool) error {
	if err := p.Ingest(ctx, corpus); err != nil {
		return err
	}

	if err := p.Answer(ctx, question, out); err != nil {
		return err
	}

	if keep {
		return nil
	}
	return p.store.Reset(ctx)
}

// Reset clears the store.
func (p *Pipeline) Reset(ctx context.Context) error {
	return p.store.Reset(ctx)
}

// Count returns the number of stored facts.
func (p *Pipeline) Count(ctx context.Context) (int, error) {
	return p.store.Count(ctx)
}
