package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

type fakeVectorStore struct {
	matches  []*model.RetrievalMatch
	searched int
	upserted []*store.VectorRecord
	err      error
}

func (f *fakeVectorStore) EnsureIndex(_ context.Context, _ int) error { return nil }

func (f *fakeVectorStore) Upsert(_ context.Context, records []*store.VectorRecord) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.upserted = append(f.upserted, records...)
	return len(records), nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, _ int) ([]*model.RetrievalMatch, error) {
	f.searched++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeVectorStore) Stats(_ context.Context) (int64, error) { return int64(len(f.upserted)), nil }

func (f *fakeVectorStore) Close(_ context.Context) error { return nil }

func TestFormatAskContextZeroMatches(t *testing.T) {
	ctx, sources := FormatAskContext(nil)

	assert.Equal(t, "No relevant context retrieved from Pinecone.", ctx)
	assert.Equal(t, []model.RetrievalMatch{}, sources)
}

func TestFormatAskContextBlocks(t *testing.T) {
	matches := []*model.RetrievalMatch{
		{ID: "a", Score: 0.9, Metadata: map[string]any{"title": "A", "year": "2020", "content": "x"}},
		{ID: "b", Score: 0.8, Metadata: map[string]any{"title": "B", "content": "y"}},
	}

	ctx, sources := FormatAskContext(matches)

	assert.Equal(t, "A (Year: 2020)\nx\n\nB\ny", ctx)
	require.Len(t, sources, 2)
	assert.Equal(t, 0, sources[0].Index)
	assert.Equal(t, "a", sources[0].ID)
	assert.Equal(t, 1, sources[1].Index)
	assert.Equal(t, "b", sources[1].ID)
}

func TestFormatAskContextUntitledMatch(t *testing.T) {
	matches := []*model.RetrievalMatch{
		{ID: "a", Metadata: map[string]any{"content": "some fact"}},
	}

	ctx, _ := FormatAskContext(matches)
	assert.Equal(t, "Source 1\nsome fact", ctx)
}

func TestFormatAskContextNumericYear(t *testing.T) {
	matches := []*model.RetrievalMatch{
		{ID: "a", Metadata: map[string]any{"title": "A", "year": float64(2021), "content": "x"}},
	}

	ctx, _ := FormatAskContext(matches)
	assert.Equal(t, "A (Year: 2021)\nx", ctx)
}

func TestFormatAskContextKeepsEmptyContentInSources(t *testing.T) {
	matches := []*model.RetrievalMatch{
		{ID: "a", Metadata: map[string]any{"title": "A", "content": ""}},
		{ID: "b", Metadata: map[string]any{"title": "B", "content": "y"}},
	}

	ctx, sources := FormatAskContext(matches)

	// the empty-content match still contributes its title block and its
	// source entry
	assert.Equal(t, "A\n\nB\ny", ctx)
	assert.Len(t, sources, 2)
}

func TestFormatChatContextBullets(t *testing.T) {
	matches := []*model.RetrievalMatch{
		{Metadata: map[string]any{"title": "Skills", "content": "Go and Flutter"}},
		{Metadata: map[string]any{"content": "Built a portfolio site"}},
		{Metadata: map[string]any{"title": "Empty"}},
	}

	got := FormatChatContext(matches)
	assert.Equal(t, "- Skills: Go and Flutter\n- Built a portfolio site", got)
}

func TestFormatChatContextNoUsableContent(t *testing.T) {
	assert.Equal(t, "", FormatChatContext(nil))
	assert.Equal(t, "", FormatChatContext([]*model.RetrievalMatch{{Metadata: map[string]any{"title": "T"}}}))
}

func TestRetrieverRetrieve(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	vs := &fakeVectorStore{matches: []*model.RetrievalMatch{{ID: "a", Score: 0.5}}}

	r := NewRetriever(vs, embedder, &RetrieverConfig{TopK: 5})
	matches, err := r.Retrieve(context.Background(), "question")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, 1, vs.searched)
}
