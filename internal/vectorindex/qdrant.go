package vectorindex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"ragsync/internal/contextutil"
)

// QdrantIndex implements Index against a Qdrant collection. The pipeline's
// namespace maps to the collection name.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex creates a new Qdrant-backed index client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) is derived from the HTTP port.
func NewQdrantIndex(urlStr, collection string) (*QdrantIndex, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// gRPC port is typically HTTP port + 1.
	port := 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantIndex{
		client:     client,
		collection: collection,
	}, nil
}

// pointID maps a chunk id to a stable UUID: Qdrant only accepts UUID or
// integer point ids, and the SHA1-based mapping keeps upserts and later
// deletes of the same chunk id in agreement.
func pointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

// Upsert inserts or updates vectors in the collection. An empty set issues
// no remote call.
func (s *QdrantIndex) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	logger := contextutil.LoggerFromContext(ctx)

	points := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, v := range vectors {
		meta := make(map[string]any, len(v.Meta)+1)
		for k, val := range v.Meta {
			meta[k] = val
		}
		// The original chunk id survives in the payload since the point id is
		// the derived UUID.
		meta["chunk_id"] = v.ID

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(v.ID)),
			Vectors: qdrant.NewVectors(v.Values...),
			Payload: qdrant.NewValueMap(meta),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", s.collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", s.collection, "count", len(points))
	return nil
}

// Delete removes vectors by their chunk IDs. An empty set issues no remote call.
func (s *QdrantIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	logger := contextutil.LoggerFromContext(ctx)

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(pointID(id)))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelector(qdrantIDs...),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "collection", s.collection, "count", len(ids), "error", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}

	logger.InfoContext(ctx, "deleted points", "collection", s.collection, "count", len(ids))
	return nil
}
