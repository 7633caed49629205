package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ragsync/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ragsync",
	Short: "Incrementally synchronize a JSON knowledge base with a vector index",
	Long: `ragsync chunks the JSON files in a data directory, fingerprints every
chunk, and pushes only the changed content to an embeddings service and a
vector index. Chunk state lives in a local SQLite database so repeated runs
over an unchanged tree make no remote calls at all.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(syncCmd, inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the process-wide logger per the configured level and
// format and returns it.
func setupLogging(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
