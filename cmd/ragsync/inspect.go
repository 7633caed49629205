package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragsync/internal/config"
	"ragsync/internal/indexer"
	"ragsync/internal/storage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the persisted chunk state and print a few samples",
	RunE:  runInspect,
}

func init() {
	flags := inspectCmd.Flags()
	flags.String("sqlite-path", "", "path to the chunk state database (default from SQLITE_PATH)")
	flags.Int("limit", 3, "number of random sample chunks to print")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath, _ = flags.GetString("sqlite-path")
	}
	limit, _ := flags.GetInt("limit")

	if _, err := os.Stat(cfg.SQLitePath); err != nil {
		return fmt.Errorf("no chunk database at %s, run sync first: %w", cfg.SQLitePath, err)
	}

	db, err := storage.New(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer db.Close()
	repo := storage.NewChunkRepo(db)

	ctx := cmd.Context()
	records, err := repo.All(ctx)
	if err != nil {
		return fmt.Errorf("reading chunk state: %w", err)
	}

	stats := indexer.CollectStats(records)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "database: %s\n", cfg.SQLitePath)
	fmt.Fprintf(out, "chunks:   %d\n", stats.Rows)
	if stats.Rows == 0 {
		return nil
	}

	fmt.Fprintln(out, "\nper source:")
	for _, sc := range stats.Sources {
		fmt.Fprintf(out, "  %-30s %d\n", sc.Source, sc.Count)
	}
	fmt.Fprintf(out, "\nbody length (runes): min=%d max=%d mean=%.1f\n", stats.MinBody, stats.MaxBody, stats.MeanBody)

	if limit <= 0 {
		return nil
	}
	samples, err := repo.Sample(ctx, limit)
	if err != nil {
		return fmt.Errorf("sampling chunks: %w", err)
	}

	fmt.Fprintln(out, "\nsamples:")
	for _, rec := range samples {
		body := rec.Body
		if runes := []rune(body); len(runes) > 200 {
			body = string(runes[:200]) + "..."
		}
		fmt.Fprintf(out, "--- %s (%s, updated %s)\n%s\n", rec.ID, rec.Source, rec.UpdatedAt, body)
	}
	return nil
}
