package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testVectors(n int) []Vector {
	vectors := make([]Vector, n)
	for i := range vectors {
		vectors[i] = Vector{
			ID:     "doc:" + string(rune('a'+i)),
			Values: []float32{float32(i), 1},
			Meta:   map[string]any{"source": "doc.json"},
		}
	}
	return vectors
}

func TestNewPineconeIndex(t *testing.T) {
	index := NewPineconeIndex("https://index.example.io/", "key", "prod", 0)
	if index.BaseURL != "https://index.example.io" {
		t.Errorf("NewPineconeIndex() BaseURL = %q, want trailing slash stripped", index.BaseURL)
	}
	if index.BatchSize != defaultBatchSize {
		t.Errorf("NewPineconeIndex() BatchSize = %d, want %d", index.BatchSize, defaultBatchSize)
	}
}

func TestPineconeIndex_Upsert_Batches(t *testing.T) {
	var paths []string
	var batchSizes []int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Api-Key"); got != "test-key" {
			t.Errorf("expected Api-Key header, got %q", got)
		}
		paths = append(paths, r.URL.Path)

		var req upsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Namespace != "prod" {
			t.Errorf("expected namespace prod, got %q", req.Namespace)
		}
		batchSizes = append(batchSizes, len(req.Vectors))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	index := NewPineconeIndex(server.URL, "test-key", "prod", 2)
	if err := index.Upsert(context.Background(), testVectors(5)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("Upsert() issued %d requests, want 3", len(paths))
	}
	for _, path := range paths {
		if path != "/vectors/upsert" {
			t.Errorf("Upsert() path = %q, want /vectors/upsert", path)
		}
	}
	wantBatches := []int{2, 2, 1}
	for i, want := range wantBatches {
		if batchSizes[i] != want {
			t.Errorf("Upsert() batch %d size = %d, want %d", i, batchSizes[i], want)
		}
	}
}

func TestPineconeIndex_Upsert_EmptySetIssuesNoRequest(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	index := NewPineconeIndex(server.URL, "test-key", "", 32)
	if err := index.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("Upsert(nil) error = %v", err)
	}
	if requests != 0 {
		t.Errorf("Upsert(nil) issued %d requests, want 0", requests)
	}
}

func TestPineconeIndex_Upsert_FailureAborts(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	index := NewPineconeIndex(server.URL, "test-key", "", 2)
	err := index.Upsert(context.Background(), testVectors(5))
	if err == nil {
		t.Fatal("Upsert() expected error, got nil")
	}
	if requests != 1 {
		t.Errorf("Upsert() issued %d requests after failure, want 1", requests)
	}
}

func TestPineconeIndex_Delete(t *testing.T) {
	var got deleteRequest
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	index := NewPineconeIndex(server.URL, "test-key", "prod", 32)
	ids := []string{"faq-old:1", "faq-old:2"}
	if err := index.Delete(context.Background(), ids); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if path != "/vectors/delete" {
		t.Errorf("Delete() path = %q, want /vectors/delete", path)
	}
	if len(got.IDs) != 2 || got.IDs[0] != "faq-old:1" || got.IDs[1] != "faq-old:2" {
		t.Errorf("Delete() ids = %v, want %v", got.IDs, ids)
	}
	if got.Namespace != "prod" {
		t.Errorf("Delete() namespace = %q, want prod", got.Namespace)
	}
}

func TestPineconeIndex_Delete_EmptySetIssuesNoRequest(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	index := NewPineconeIndex(server.URL, "test-key", "", 32)
	if err := index.Delete(context.Background(), nil); err != nil {
		t.Fatalf("Delete(nil) error = %v", err)
	}
	if requests != 0 {
		t.Errorf("Delete(nil) issued %d requests, want 0", requests)
	}
}

func TestPineconeIndex_NamespaceOmittedWhenEmpty(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	index := NewPineconeIndex(server.URL, "test-key", "", 32)
	if err := index.Upsert(context.Background(), testVectors(1)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if _, ok := raw["namespace"]; ok {
		t.Error("Upsert() payload includes namespace key despite empty namespace")
	}
}
