package vectorindex

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks ragsync/internal/vectorindex Index

import "context"

// Vector is one embedded chunk destined for the remote index.
type Vector struct {
	ID     string
	Values []float32
	Meta   map[string]any
}

// Index is the remote vector index boundary: batched upserts and delete-by-id,
// both scoped to whatever partition the backend was configured with.
type Index interface {
	// Upsert inserts or updates vectors. Must issue no remote call when the
	// set is empty.
	Upsert(ctx context.Context, vectors []Vector) error

	// Delete removes vectors by their IDs.
	Delete(ctx context.Context, ids []string) error
}
