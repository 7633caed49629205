package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ragsync/internal/contextutil"
)

const defaultBatchSize = 32

// PineconeIndex implements Index against a Pinecone-style HTTP endpoint.
// Requests are scoped to Namespace when it is non-empty.
type PineconeIndex struct {
	BaseURL   string
	APIKey    string
	Namespace string
	BatchSize int
	client    *http.Client
}

// NewPineconeIndex creates a new index client for the given host URL.
// batchSize bounds vectors per upsert request; values <= 0 use the default.
func NewPineconeIndex(baseURL, apiKey, namespace string, batchSize int) *PineconeIndex {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &PineconeIndex{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		Namespace: namespace,
		BatchSize: batchSize,
		client:    http.DefaultClient,
	}
}

type vectorPayload struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vectorPayload `json:"vectors"`
	Namespace string          `json:"namespace,omitempty"`
}

type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}

// Upsert pushes vectors to the index in bounded batches. An empty set issues
// no remote call. Any non-success response aborts immediately; batches already
// accepted by the index are not rolled back.
func (p *PineconeIndex) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "upserting vectors", "count", len(vectors), "namespace", p.Namespace)

	for start := 0; start < len(vectors); start += p.BatchSize {
		end := start + p.BatchSize
		if end > len(vectors) {
			end = len(vectors)
		}

		batch := make([]vectorPayload, 0, end-start)
		for _, v := range vectors[start:end] {
			batch = append(batch, vectorPayload{ID: v.ID, Values: v.Values, Metadata: v.Meta})
		}

		if err := p.post(ctx, "/vectors/upsert", upsertRequest{Vectors: batch, Namespace: p.Namespace}); err != nil {
			return fmt.Errorf("index upsert failed: %w", err)
		}
	}
	return nil
}

// Delete removes vectors by id. An empty set issues no remote call.
func (p *PineconeIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "deleting vectors", "count", len(ids), "namespace", p.Namespace)

	if err := p.post(ctx, "/vectors/delete", deleteRequest{IDs: ids, Namespace: p.Namespace}); err != nil {
		return fmt.Errorf("index delete failed: %w", err)
	}
	return nil
}

func (p *PineconeIndex) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Api-Key", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
