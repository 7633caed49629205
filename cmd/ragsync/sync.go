package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragsync/internal/config"
	"ragsync/internal/contextutil"
	"ragsync/internal/indexer"
	"ragsync/internal/llm"
	"ragsync/internal/storage"
	"ragsync/internal/vectorindex"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan the data directory and push changed chunks to the index",
	RunE:  runSync,
}

func init() {
	flags := syncCmd.Flags()
	flags.String("data-dir", "", "directory of JSON source files (default from DATA_DIR)")
	flags.String("sqlite-path", "", "path to the chunk state database (default from SQLITE_PATH)")
	flags.String("index-provider", "", "vector index provider: pinecone or qdrant (default from INDEX_PROVIDER)")
	flags.String("index-host", "", "vector index host URL (default from PINECONE_HOST)")
	flags.String("namespace", "", "index namespace, or qdrant collection name (default from PINECONE_NAMESPACE)")
	flags.String("embedding-model", "", "embeddings model name (default from OPENAI_EMBEDDING_MODEL)")
	flags.Int("batch-size", 0, "texts per embeddings request (default from BATCH_SIZE)")
	flags.Int("chunk-size", 0, "chunk window size in runes (default from CHUNK_SIZE)")
	flags.Int("chunk-overlap", 0, "overlap between adjacent chunks in runes (default from CHUNK_OVERLAP)")
	flags.Bool("skip-remote", false, "build and persist chunks without calling any remote service")
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applySyncFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.ValidateRemote(); err != nil {
		return err
	}

	logger := setupLogging(cfg)
	ctx := contextutil.WithLogger(cmd.Context(), logger)

	splitter, err := indexer.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	db, err := storage.New(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("migrating state database: %w", err)
	}
	repo := storage.NewChunkRepo(db)

	var remote *indexer.Remote
	if !cfg.SkipRemote {
		index, err := buildIndex(cfg)
		if err != nil {
			return err
		}
		remote = &indexer.Remote{
			Embedder: llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.BatchSize),
			Index:    index,
		}
	}

	pipeline := indexer.NewPipeline(cfg.DataDir, splitter, repo, remote)
	summary, err := pipeline.Sync(ctx)
	if err != nil {
		return err
	}

	logger.Info("sync complete",
		"chunks", summary.Chunks,
		"refreshed", summary.Refreshed,
		"deleted", summary.Deleted,
		"skip_remote", cfg.SkipRemote,
	)
	return nil
}

// applySyncFlags overlays explicitly set command-line flags onto the
// environment-derived config, then re-validates the chunking parameters.
func applySyncFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath, _ = flags.GetString("sqlite-path")
	}
	if flags.Changed("index-provider") {
		cfg.IndexProvider, _ = flags.GetString("index-provider")
	}
	if flags.Changed("index-host") {
		cfg.IndexHost, _ = flags.GetString("index-host")
	}
	if flags.Changed("namespace") {
		cfg.IndexNamespace, _ = flags.GetString("namespace")
	}
	if flags.Changed("embedding-model") {
		cfg.EmbeddingModel, _ = flags.GetString("embedding-model")
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("chunk-overlap") {
		cfg.ChunkOverlap, _ = flags.GetInt("chunk-overlap")
	}
	if flags.Changed("skip-remote") {
		cfg.SkipRemote, _ = flags.GetBool("skip-remote")
	}

	return cfg.Validate()
}

func buildIndex(cfg *config.Config) (vectorindex.Index, error) {
	switch cfg.IndexProvider {
	case config.ProviderPinecone:
		return vectorindex.NewPineconeIndex(cfg.IndexHost, cfg.IndexAPIKey, cfg.IndexNamespace, cfg.BatchSize), nil
	case config.ProviderQdrant:
		return vectorindex.NewQdrantIndex(cfg.IndexHost, cfg.IndexNamespace)
	default:
		return nil, fmt.Errorf("unknown index provider %q", cfg.IndexProvider)
	}
}
