package store

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/pkg/component/milvus"
	vectoropts "github.com/gireesh-ai/portfolio/pkg/options/vector"
)

// NewFromOptions builds the configured vector store backend. The returned
// cleanup closes the underlying connection and must be called on shutdown.
func NewFromOptions(ctx context.Context, opts *vectoropts.Options) (VectorStore, func(), error) {
	switch opts.Backend {
	case vectoropts.BackendPinecone:
		pc, err := NewPineconeStore(ctx, opts.Pinecone)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize pinecone: %w", err)
		}
		logger.Infow("Vector store initialized", "backend", "pinecone")
		return pc, func() { _ = pc.Close(context.Background()) }, nil
	case vectoropts.BackendMilvus:
		client, err := milvus.New(opts.Milvus)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize milvus: %w", err)
		}
		logger.Infow("Vector store initialized", "backend", "milvus", "collection", opts.Collection)
		return NewMilvusStore(client, opts.Collection), func() { _ = client.Close(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector backend: %s", opts.Backend)
	}
}
