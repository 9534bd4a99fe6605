package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localrag/localrag/internal/config"
	"github.com/localrag/localrag/internal/embedding"
	"github.com/localrag/localrag/internal/knowledge"
	"github.com/localrag/localrag/internal/llm"
	"github.com/localrag/localrag/internal/log"
	"github.com/localrag/localrag/internal/rag"
)

// session bundles the wired components for one command invocation.
type session struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	store    *knowledge.Store
	pipeline *rag.Pipeline
	logger   log.Logger
}

// Close releases the database pool.
func (s *session) Close() {
	s.pool.Close()
}

// newSession loads configuration and wires the store, the provider-specific
// embedder and generator, and the pipeline. Overrides run after loading and
// before validation-sensitive wiring, letting flags adjust the config.
func newSession(ctx context.Context, logger log.Logger, overrides ...func(*config.Config)) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresConnString())
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to PostgreSQL at %s:%d: %w",
			cfg.PostgresHost, cfg.PostgresPort, err)
	}

	store, err := knowledge.NewStore(pool, cfg.Dimension, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	embedder, generator, err := buildProvider(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	pipeline, err := rag.NewPipeline(rag.Config{
		Store:     store,
		Embedder:  embedder,
		Generator: generator,
		Logger:    logger,
		TopK:      cfg.TopK,
		BatchSize: cfg.EmbedBatchSize,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Debug("session ready",
		"provider", cfg.Provider,
		"chat_model", cfg.ChatModel,
		"embed_model", cfg.EmbedModel,
		"dimension", cfg.Dimension)

	return &session{
		cfg:      cfg,
		pool:     pool,
		store:    store,
		pipeline: pipeline,
		logger:   logger,
	}, nil
}

// buildProvider constructs the embedder and generator for the configured
// model provider. Config validation has already checked the provider name
// and, for gemini, the API key.
func buildProvider(ctx context.Context, cfg *config.Config) (embedding.Embedder, llm.Generator, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		embedder, err := embedding.NewOllamaEmbedder(cfg.EmbedModel, cfg.OllamaHost, cfg.Dimension)
		if err != nil {
			return nil, nil, err
		}
		generator, err := llm.NewOllamaGenerator(cfg.ChatModel, cfg.OllamaHost)
		if err != nil {
			return nil, nil, err
		}
		return embedder, generator, nil

	case config.ProviderGemini:
		embedder, err := embedding.NewGeminiEmbedder(ctx, cfg.EmbedModel, cfg.Dimension)
		if err != nil {
			return nil, nil, err
		}
		generator, err := llm.NewGeminiGenerator(ctx, cfg.ChatModel)
		if err != nil {
			return nil, nil, err
		}
		return embedder, generator, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidProvider, cfg.Provider)
	}
}

// loadCorpus resolves the corpus for a command: the file at path when given,
// the built-in corpus otherwise.
func loadCorpus(path string) ([]string, error) {
	if path == "" {
		return rag.DefaultCorpus, nil
	}
	return rag.LoadCorpus(path)
}
