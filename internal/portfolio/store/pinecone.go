package store

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v2/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gireesh-ai/portfolio/internal/model"
	pineconeopts "github.com/gireesh-ai/portfolio/pkg/options/pinecone"
)

// PineconeStore implements VectorStore against a Pinecone serverless index.
type PineconeStore struct {
	client *pinecone.Client
	index  *pinecone.IndexConnection
	opts   *pineconeopts.Options
}

// NewPineconeStore connects to the configured Pinecone index. When no
// index host is configured it is resolved through DescribeIndex.
func NewPineconeStore(ctx context.Context, opts *pineconeopts.Options) (*PineconeStore, error) {
	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: opts.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}

	host := opts.IndexHost
	if host == "" {
		idx, err := client.DescribeIndex(ctx, opts.IndexName)
		if err != nil {
			return nil, fmt.Errorf("failed to describe pinecone index %q: %w", opts.IndexName, err)
		}
		host = idx.Host
	}

	index, err := client.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: opts.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index: %w", err)
	}

	return &PineconeStore{
		client: client,
		index:  index,
		opts:   opts,
	}, nil
}

// EnsureIndex verifies the index exists. Pinecone serverless indexes are
// provisioned out of band, so this only checks reachability.
func (s *PineconeStore) EnsureIndex(ctx context.Context, _ int) error {
	if _, err := s.index.DescribeIndexStats(ctx); err != nil {
		return fmt.Errorf("pinecone index not reachable: %w", err)
	}
	return nil
}

// Upsert writes records to the index.
func (s *PineconeStore) Upsert(ctx context.Context, records []*VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	vectors := make([]*pinecone.Vector, 0, len(records))
	for _, rec := range records {
		metadata, err := structpb.NewStruct(rec.Metadata)
		if err != nil {
			return 0, fmt.Errorf("invalid metadata for record %q: %w", rec.ID, err)
		}
		vectors = append(vectors, &pinecone.Vector{
			Id:       rec.ID,
			Values:   rec.Values,
			Metadata: metadata,
		})
	}

	count, err := s.index.UpsertVectors(ctx, vectors)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	return int(count), nil
}

// Search queries the index by vector similarity.
func (s *PineconeStore) Search(ctx context.Context, embedding []float32, topK int) ([]*model.RetrievalMatch, error) {
	resp, err := s.index.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          embedding,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query pinecone: %w", err)
	}

	matches := make([]*model.RetrievalMatch, 0, len(resp.Matches))
	for i, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		match := &model.RetrievalMatch{
			Index: i,
			ID:    m.Vector.Id,
			Score: m.Score,
		}
		if m.Vector.Metadata != nil {
			match.Metadata = m.Vector.Metadata.AsMap()
		} else {
			match.Metadata = map[string]any{}
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// Stats returns the total vector count.
func (s *PineconeStore) Stats(ctx context.Context) (int64, error) {
	stats, err := s.index.DescribeIndexStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get index stats: %w", err)
	}
	return int64(stats.TotalVectorCount), nil
}

// Close releases the index connection.
func (s *PineconeStore) Close(_ context.Context) error {
	return s.index.Close()
}

var _ VectorStore = (*PineconeStore)(nil)
