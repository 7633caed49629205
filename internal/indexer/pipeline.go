package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ragsync/internal/contextutil"
	"ragsync/internal/llm"
	"ragsync/internal/storage"
	"ragsync/internal/vectorindex"
)

// Remote bundles the services a sync run talks to. A nil Remote on the
// pipeline means local-only mode: chunks are built, diffed, and persisted,
// but nothing is embedded or pushed.
type Remote struct {
	Embedder llm.Embedder
	Index    vectorindex.Index
}

// Pipeline drives one synchronization pass: scan, diff, push, persist.
type Pipeline struct {
	dataDir  string
	splitter *Splitter
	store    storage.ChunkStore
	remote   *Remote
}

// Summary reports what a sync run did.
type Summary struct {
	Chunks    int // total chunks built from the data dir
	Refreshed int // chunks embedded and upserted (or re-persisted locally)
	Deleted   int // stale ids removed from the index
}

func NewPipeline(dataDir string, splitter *Splitter, store storage.ChunkStore, remote *Remote) *Pipeline {
	return &Pipeline{
		dataDir:  dataDir,
		splitter: splitter,
		store:    store,
		remote:   remote,
	}
}

// Sync builds the desired chunk set from the data dir, diffs it against the
// stored checksums, pushes the difference to the remote services, and then
// replaces the local state with the new set. Local state is only written
// after every remote call has succeeded, so a failed run leaves the previous
// state intact and the next run retries the same difference.
func (p *Pipeline) Sync(ctx context.Context) (Summary, error) {
	logger := contextutil.LoggerFromContext(ctx).With("run_id", uuid.NewString())
	ctx = contextutil.WithLogger(ctx, logger)

	chunks, err := BuildChunks(ctx, p.dataDir, p.splitter)
	if err != nil {
		return Summary{}, fmt.Errorf("building chunks: %w", err)
	}

	prev, err := p.store.Checksums(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading stored checksums: %w", err)
	}

	toRefresh, toDelete := Diff(prev, chunks)
	logger.Info("computed sync plan",
		"chunks", len(chunks),
		"refresh", len(toRefresh),
		"delete", len(toDelete),
	)

	if p.remote != nil {
		if err := p.pushRefresh(ctx, toRefresh); err != nil {
			return Summary{}, err
		}
		if len(toDelete) > 0 {
			if err := p.remote.Index.Delete(ctx, toDelete); err != nil {
				return Summary{}, fmt.Errorf("deleting stale vectors: %w", err)
			}
		}
	} else {
		logger.Info("remote services disabled, skipping embed and index push")
	}

	records := make([]storage.ChunkRecord, 0, len(chunks))
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	for _, chunk := range chunks {
		records = append(records, storage.ChunkRecord{
			ID:        chunk.ID,
			Source:    chunk.Source,
			Topic:     chunk.Topic,
			Body:      chunk.Body,
			Checksum:  chunk.Checksum,
			UpdatedAt: updatedAt,
		})
	}
	if err := p.store.ReplaceAll(ctx, records); err != nil {
		return Summary{}, fmt.Errorf("persisting chunk state: %w", err)
	}

	return Summary{
		Chunks:    len(chunks),
		Refreshed: len(toRefresh),
		Deleted:   len(toDelete),
	}, nil
}

func (p *Pipeline) pushRefresh(ctx context.Context, toRefresh []Chunk) error {
	if len(toRefresh) == 0 {
		return nil
	}

	texts := make([]string, 0, len(toRefresh))
	for _, chunk := range toRefresh {
		texts = append(texts, chunk.Body)
	}

	embeddings, err := p.remote.Embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(toRefresh), err)
	}
	if len(embeddings) != len(toRefresh) {
		return fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(toRefresh))
	}

	vectors := make([]vectorindex.Vector, 0, len(toRefresh))
	for i, chunk := range toRefresh {
		vectors = append(vectors, vectorindex.Vector{
			ID:     chunk.ID,
			Values: embeddings[i],
			Meta: map[string]any{
				"source":   chunk.Source,
				"topic":    chunk.Topic,
				"checksum": chunk.Checksum,
			},
		})
	}
	if err := p.remote.Index.Upsert(ctx, vectors); err != nil {
		return fmt.Errorf("upserting %d vectors: %w", len(vectors), err)
	}
	return nil
}
