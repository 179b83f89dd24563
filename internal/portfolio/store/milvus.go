package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/pkg/component/milvus"
)

// metadata fields stored alongside each vector
const (
	fieldRecordID = "record_id"
	fieldTitle    = "title"
	fieldContent  = "content"
	fieldCategory = "category"
	fieldYear     = "year"
)

// MilvusStore implements VectorStore on a self-hosted Milvus collection.
type MilvusStore struct {
	client     *milvus.Client
	collection string
}

// NewMilvusStore creates a Milvus-backed vector store.
func NewMilvusStore(client *milvus.Client, collection string) *MilvusStore {
	return &MilvusStore{
		client:     client,
		collection: collection,
	}
}

// EnsureIndex creates the collection if it does not exist.
func (s *MilvusStore) EnsureIndex(ctx context.Context, dimension int) error {
	schema := &milvus.CollectionSchema{
		Name:        s.collection,
		Description: "portfolio knowledge base",
		Dimension:   dimension,
		MetaFields: []milvus.MetaField{
			{Name: fieldRecordID, DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: fieldTitle, DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: fieldContent, DataType: entity.FieldTypeVarChar, MaxLen: 65535},
			{Name: fieldCategory, DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: fieldYear, DataType: entity.FieldTypeVarChar, MaxLen: 16},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Upsert inserts records into the collection.
func (s *MilvusStore) Upsert(ctx context.Context, records []*VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	embeddings := make([][]float32, len(records))
	metadata := map[string][]any{
		fieldRecordID: make([]any, len(records)),
		fieldTitle:    make([]any, len(records)),
		fieldContent:  make([]any, len(records)),
		fieldCategory: make([]any, len(records)),
		fieldYear:     make([]any, len(records)),
	}

	for i, rec := range records {
		embeddings[i] = rec.Values
		metadata[fieldRecordID][i] = rec.ID
		metadata[fieldTitle][i] = stringMeta(rec.Metadata, fieldTitle)
		metadata[fieldContent][i] = stringMeta(rec.Metadata, fieldContent)
		metadata[fieldCategory][i] = stringMeta(rec.Metadata, fieldCategory)
		metadata[fieldYear][i] = stringMeta(rec.Metadata, fieldYear)
	}

	ids, err := s.client.Insert(ctx, s.collection, &milvus.InsertData{
		Embeddings: embeddings,
		Metadata:   metadata,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert into milvus: %w", err)
	}

	return len(ids), nil
}

// Search performs a vector similarity search.
func (s *MilvusStore) Search(ctx context.Context, embedding []float32, topK int) ([]*model.RetrievalMatch, error) {
	outputFields := []string{fieldRecordID, fieldTitle, fieldContent, fieldCategory, fieldYear}
	results, err := s.client.Search(ctx, s.collection, embedding, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	matches := make([]*model.RetrievalMatch, 0, len(results))
	for i, r := range results {
		match := &model.RetrievalMatch{
			Index:    i,
			Score:    r.Score,
			Metadata: map[string]any{},
		}
		if id, ok := r.Metadata[fieldRecordID].(string); ok {
			match.ID = id
		}
		for _, field := range []string{fieldTitle, fieldContent, fieldCategory, fieldYear} {
			if v, ok := r.Metadata[field]; ok {
				match.Metadata[field] = v
			}
		}
		matches = append(matches, match)
	}

	return matches, nil
}

// Stats returns the number of entities in the collection.
func (s *MilvusStore) Stats(ctx context.Context) (int64, error) {
	return s.client.GetCollectionStats(ctx, s.collection)
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func stringMeta(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	switch v := metadata[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

var _ VectorStore = (*MilvusStore)(nil)
