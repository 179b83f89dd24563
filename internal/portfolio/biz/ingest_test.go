package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gireesh-ai/portfolio/internal/model"
)

func TestIngestSkipsIncompleteRecords(t *testing.T) {
	vs := &fakeVectorStore{}
	ing := NewIngestor(vs, &fakeEmbedder{vector: []float32{0.1, 0.2}}, nil)

	records := []model.ContextRecord{
		{ID: "1", Title: "A", Content: "about Go", Year: "2020"},
		{ID: "", Content: "no id"},
		{ID: "3", Content: ""},
		{ID: "4", Content: "about Flutter"},
	}

	report, err := ing.Ingest(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, report.Upserted)

	require.Len(t, vs.upserted, 2)
	assert.Equal(t, "1", vs.upserted[0].ID)
	assert.Equal(t, "about Go", vs.upserted[0].Metadata["content"])
	assert.Equal(t, "A", vs.upserted[0].Metadata["title"])
	assert.Equal(t, int64(2020), vs.upserted[0].Metadata["year"])
	// optional fields stay out of the metadata when absent
	assert.NotContains(t, vs.upserted[1].Metadata, "title")
	assert.NotContains(t, vs.upserted[1].Metadata, "year")
}

func TestIngestNonNumericYearStaysText(t *testing.T) {
	vs := &fakeVectorStore{}
	ing := NewIngestor(vs, &fakeEmbedder{vector: []float32{0.1}}, nil)

	_, err := ing.Ingest(context.Background(), []model.ContextRecord{
		{ID: "1", Content: "x", Year: "early 2021"},
	})
	require.NoError(t, err)
	require.Len(t, vs.upserted, 1)
	assert.Equal(t, "early 2021", vs.upserted[0].Metadata["year"])
}

func TestIngestEmptyInput(t *testing.T) {
	vs := &fakeVectorStore{}
	ing := NewIngestor(vs, &fakeEmbedder{vector: []float32{0.1}}, nil)

	report, err := ing.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, vs.upserted)
}

func TestIngestBatching(t *testing.T) {
	vs := &fakeVectorStore{}
	ing := NewIngestor(vs, &fakeEmbedder{vector: []float32{0.5}}, &IngestorConfig{BatchSize: 2})

	records := make([]model.ContextRecord, 5)
	for i := range records {
		records[i] = model.ContextRecord{ID: string(rune('a' + i)), Content: "c"}
	}

	report, err := ing.Ingest(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Upserted)
	assert.Len(t, vs.upserted, 5)
}

func TestIngestEmbedFailure(t *testing.T) {
	vs := &fakeVectorStore{}
	ing := NewIngestor(vs, &fakeEmbedder{err: errors.New("quota exceeded")}, nil)

	report, err := ing.Ingest(context.Background(), []model.ContextRecord{{ID: "1", Content: "x"}})
	require.Error(t, err)
	assert.Equal(t, 0, report.Upserted)
}
