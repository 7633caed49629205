package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Index provider identifiers.
const (
	ProviderPinecone = "pinecone"
	ProviderQdrant   = "qdrant"
)

// Config holds all configuration for the sync pipeline.
type Config struct {
	DataDir    string
	SQLitePath string

	IndexProvider  string // "pinecone" or "qdrant"
	IndexHost      string
	IndexNamespace string
	IndexAPIKey    string

	EmbeddingBaseURL string
	EmbeddingModel   string
	EmbeddingAPIKey  string

	BatchSize    int
	ChunkSize    int
	ChunkOverlap int

	SkipRemote bool

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the chunking parameters.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically. Environment variables already set take precedence over .env values.
//
// Remote credentials are not validated here: a run with SkipRemote set never needs
// them. Call ValidateRemote before constructing any remote client.
func Load() (*Config, error) {
	// Try current directory first, then walk up to find the project root.
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DataDir:          getEnv("DATA_DIR", "static/data"),
		SQLitePath:       getEnv("SQLITE_PATH", "static/data/rag_chunks.db"),
		IndexProvider:    getEnv("INDEX_PROVIDER", ProviderPinecone),
		IndexHost:        getEnv("PINECONE_HOST", ""),
		IndexNamespace:   getEnv("PINECONE_NAMESPACE", ""),
		IndexAPIKey:      getEnv("PINECONE_API_KEY", ""),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingModel:   getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingAPIKey:  getEnv("OPENAI_API_KEY", ""),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	if cfg.BatchSize, err = getEnvInt("BATCH_SIZE", 32); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 900); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 150); err != nil {
		return nil, err
	}
	cfg.SkipRemote = strings.EqualFold(getEnv("SKIP_REMOTE", "false"), "true")

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the local parameters that every run depends on.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be greater than 0, got %d", c.BatchSize)
	}
	return nil
}

// ValidateRemote checks that every credential the remote sync step needs is
// present. It must pass before any remote client is constructed; a run with
// SkipRemote set never calls it.
func (c *Config) ValidateRemote() error {
	if c.SkipRemote {
		return nil
	}
	if c.EmbeddingAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required to build embeddings unless SKIP_REMOTE is set")
	}
	switch c.IndexProvider {
	case ProviderPinecone:
		if c.IndexHost == "" {
			return fmt.Errorf("PINECONE_HOST must be provided unless SKIP_REMOTE is set")
		}
		if c.IndexAPIKey == "" {
			return fmt.Errorf("PINECONE_API_KEY is required unless SKIP_REMOTE is set")
		}
	case ProviderQdrant:
		if c.IndexHost == "" {
			return fmt.Errorf("PINECONE_HOST (qdrant URL) must be provided unless SKIP_REMOTE is set")
		}
		if c.IndexNamespace == "" {
			return fmt.Errorf("PINECONE_NAMESPACE (qdrant collection) is required for the qdrant provider")
		}
	default:
		return fmt.Errorf("unknown index provider %q: use %s or %s", c.IndexProvider, ProviderPinecone, ProviderQdrant)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", value)
	}
}
