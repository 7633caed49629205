package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ragsync/internal/contextutil"
)

// BuildChunks scans dataDir for *.json files and produces the full desired
// chunk set: every file is parsed, split into documents, windowed by the
// splitter, and fingerprinted. Files are visited in sorted name order so runs
// over the same tree produce the same chunk sequence.
func BuildChunks(ctx context.Context, dataDir string, splitter *Splitter) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir %s: %w", dataDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", dataDir)
	}

	paths, err := filepath.Glob(filepath.Join(dataDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing data dir %s: %w", dataDir, err)
	}
	sort.Strings(paths)

	var chunks []Chunk
	for _, path := range paths {
		fileChunks, err := chunkFile(path, splitter)
		if err != nil {
			return nil, err
		}
		logger.Debug("chunked source file", "file", filepath.Base(path), "chunks", len(fileChunks))
		chunks = append(chunks, fileChunks...)
	}
	return chunks, nil
}

func chunkFile(path string, splitter *Splitter) ([]Chunk, error) {
	name := filepath.Base(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var chunks []Chunk
	for _, doc := range ExtractDocuments(stem, payload) {
		for i, body := range splitter.Split(doc.Text) {
			chunks = append(chunks, Chunk{
				ID:       fmt.Sprintf("%s:%d", doc.BaseID, i+1),
				Source:   name,
				Topic:    doc.Topic,
				Body:     body,
				Checksum: Checksum(body),
			})
		}
	}
	return chunks, nil
}
