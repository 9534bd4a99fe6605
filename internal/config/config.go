// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (LOCALRAG_* prefix, plus DATABASE_URL)
//  2. Config file (~/.localrag/config.yaml or ./config.yaml)
//  3. Default values matching a stock local setup (Ollama + dockerized pgvector)
//
// There are no process-wide mutable singletons: Load returns a Config struct
// that is passed explicitly into each component constructor.
//
// Error handling uses sentinel errors so callers can branch with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidProvider indicates the model provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidChatModel indicates the chat model name is invalid.
	ErrInvalidChatModel = errors.New("invalid chat model")

	// ErrInvalidEmbedModel indicates the embedding model name is invalid.
	ErrInvalidEmbedModel = errors.New("invalid embedding model")

	// ErrInvalidDimension indicates the embedding dimension is out of range.
	ErrInvalidDimension = errors.New("invalid embedding dimension")

	// ErrInvalidTopK indicates the retrieval width is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidBatchSize indicates the embedding batch size is out of range.
	ErrInvalidBatchSize = errors.New("invalid embed batch size")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

// Model provider identifiers used in Config.Provider.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

const (
	// DefaultEmbedModel is the default Ollama embedding model.
	// nomic-embed-text outputs 768-dimension vectors.
	DefaultEmbedModel = "nomic-embed-text"

	// DefaultChatModel is the default Ollama chat model.
	DefaultChatModel = "phi3:latest"

	// DefaultDimension is the vector dimension of DefaultEmbedModel.
	// The facts table schema is created with exactly this dimension; changing
	// the embedding model requires a store reset.
	DefaultDimension = 768

	// DefaultTopK is the default number of facts retrieved per question.
	DefaultTopK = 5

	// MaxTopK bounds the retrieval width.
	MaxTopK = 100

	// DefaultEmbedBatchSize is the number of texts sent per embedding call
	// during ingestion.
	DefaultEmbedBatchSize = 16

	// MaxEmbedBatchSize bounds the per-call embedding batch.
	MaxEmbedBatchSize = 512

	// MaxDimension bounds the vector dimension. pgvector indexes support up
	// to 2000 dimensions; plain columns go higher but nothing we target does.
	MaxDimension = 4096
)

// Config stores application configuration.
// SENSITIVE fields (postgres password) must never be logged.
type Config struct {
	// Model provider configuration
	Provider   string `mapstructure:"provider"`    // "ollama" (default) or "gemini"
	ChatModel  string `mapstructure:"chat_model"`  // e.g. "phi3:latest", "gemini-2.5-flash"
	EmbedModel string `mapstructure:"embed_model"` // e.g. "nomic-embed-text", "gemini-embedding-001"
	OllamaHost string `mapstructure:"ollama_host"` // only used when provider is "ollama"

	// Retrieval configuration
	Dimension      int `mapstructure:"dimension"`        // vector dimension D, fixed per embedding model
	TopK           int `mapstructure:"top_k"`            // retrieval width K
	EmbedBatchSize int `mapstructure:"embed_batch_size"` // texts per embedding call during ingestion

	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".localrag")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // also support current directory

	setDefaults(v)

	// LOCALRAG_POSTGRES_HOST overrides postgres_host, etc.
	v.SetEnvPrefix("LOCALRAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL has highest priority for PostgreSQL settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOllama)
	v.SetDefault("chat_model", DefaultChatModel)
	v.SetDefault("embed_model", DefaultEmbedModel)
	v.SetDefault("ollama_host", "http://localhost:11434")

	v.SetDefault("dimension", DefaultDimension)
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("embed_batch_size", DefaultEmbedBatchSize)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "admin")
	v.SetDefault("postgres_password", "Password123!")
	v.SetDefault("postgres_db_name", "postgres")
	v.SetDefault("postgres_ssl_mode", "disable")
}
