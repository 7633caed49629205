package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewEmbeddingsClient(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8080", "test-key", "test-model", 16)
	if client == nil {
		t.Fatal("NewEmbeddingsClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("NewEmbeddingsClient() BaseURL = %v, want http://localhost:8080", client.BaseURL)
	}
	if client.BatchSize != 16 {
		t.Errorf("NewEmbeddingsClient() BatchSize = %v, want 16", client.BatchSize)
	}

	client = NewEmbeddingsClient("http://localhost:8080", "test-key", "test-model", 0)
	if client.BatchSize != DefaultBatchSize {
		t.Errorf("NewEmbeddingsClient() BatchSize = %v, want DefaultBatchSize %d", client.BatchSize, DefaultBatchSize)
	}
}

func embeddingFor(text string) []float64 {
	// Distinct per-input vector so order preservation is checkable.
	return []float64{float64(len(text)), 1}
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name       string
		texts      []string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantErr    bool
		wantCount  int
	}{
		{
			name:  "successful embedding",
			texts: []string{"Hello", "World"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("expected bearer auth header, got %q", got)
				}

				var req EmbeddingsRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Model != "test-model" {
					t.Errorf("expected model test-model, got %q", req.Model)
				}

				resp := EmbeddingsResponse{}
				for _, text := range req.Input {
					resp.Data = append(resp.Data, EmbeddingData{Embedding: embeddingFor(text)})
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr:   false,
			wantCount: 2,
		},
		{
			name:  "empty input",
			texts: []string{},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request should be issued for empty input")
			},
			wantErr: true,
		},
		{
			name:  "wrong embedding count",
			texts: []string{"Hello", "World"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{{Embedding: []float64{1, 2}}},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:  "server error aborts",
			texts: []string{"Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 32)
			embeddings, err := client.EmbedTexts(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EmbedTexts() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("EmbedTexts() unexpected error: %v", err)
				return
			}

			if len(embeddings) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d embeddings, want %d", len(embeddings), tt.wantCount)
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_Batching(t *testing.T) {
	var batchSizes []int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		batchSizes = append(batchSizes, len(req.Input))

		resp := EmbeddingsResponse{}
		for _, text := range req.Input {
			resp.Data = append(resp.Data, EmbeddingData{Embedding: embeddingFor(text)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 2)
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	embeddings, err := client.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if len(embeddings) != len(texts) {
		t.Fatalf("EmbedTexts() returned %d embeddings, want %d", len(embeddings), len(texts))
	}

	// 5 inputs at batch size 2 → requests of 2, 2, 1.
	wantBatches := []int{2, 2, 1}
	if len(batchSizes) != len(wantBatches) {
		t.Fatalf("EmbedTexts() issued %d requests, want %d", len(batchSizes), len(wantBatches))
	}
	for i, want := range wantBatches {
		if batchSizes[i] != want {
			t.Errorf("EmbedTexts() batch %d size = %d, want %d", i, batchSizes[i], want)
		}
	}

	// Input order is preserved across batch boundaries.
	for i, text := range texts {
		if embeddings[i][0] != float32(len(text)) {
			t.Errorf("EmbedTexts() embedding[%d][0] = %v, want %v (order not preserved)", i, embeddings[i][0], len(text))
		}
	}
}

func TestEmbeddingsClient_EmbedTexts_MidBatchFailureAborts(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("rate limited"))
			return
		}

		var req EmbeddingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := EmbeddingsResponse{}
		for _, text := range req.Input {
			resp.Data = append(resp.Data, EmbeddingData{Embedding: embeddingFor(text)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 2)
	_, err := client.EmbedTexts(context.Background(), []string{"a", "b", "c", "d"})
	if err == nil {
		t.Fatal("EmbedTexts() expected error after failed second batch, got nil")
	}
	if requests != 2 {
		t.Errorf("EmbedTexts() issued %d requests, want 2 (no continuation past the failure)", requests)
	}
}
