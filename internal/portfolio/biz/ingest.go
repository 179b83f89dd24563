package biz

import (
	"context"
	"fmt"
	"sync"

	"github.com/kart-io/logger"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	"github.com/gireesh-ai/portfolio/pkg/pool"
)

// IngestorConfig configures the knowledge base ingestor.
type IngestorConfig struct {
	// BatchSize is the number of records embedded and upserted per batch.
	BatchSize int
	// Dimension is the embedding dimension used when ensuring the index.
	Dimension int
}

// IngestReport summarizes an ingestion run.
type IngestReport struct {
	Total    int
	Skipped  int
	Upserted int
}

// Ingestor embeds context records and writes them to the vector index.
type Ingestor struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	config        *IngestorConfig
}

// NewIngestor creates an ingestor.
func NewIngestor(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider, config *IngestorConfig) *Ingestor {
	if config == nil {
		config = &IngestorConfig{}
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}
	if config.Dimension <= 0 {
		config.Dimension = 384
	}
	return &Ingestor{
		store:         vectorStore,
		embedProvider: embedProvider,
		config:        config,
	}
}

// Ingest loads the records into the index. Records without an id or
// content are skipped and counted, not treated as errors. Batches run in
// parallel on the ingest worker pool.
func (g *Ingestor) Ingest(ctx context.Context, records []model.ContextRecord) (*IngestReport, error) {
	report := &IngestReport{Total: len(records)}

	usable := make([]model.ContextRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" || rec.Content == "" {
			report.Skipped++
			continue
		}
		usable = append(usable, rec)
	}

	if len(usable) == 0 {
		return report, nil
	}

	if err := g.store.EnsureIndex(ctx, g.config.Dimension); err != nil {
		return report, fmt.Errorf("failed to ensure index: %w", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		errs     []error
		upserted int
	)

	for start := 0; start < len(usable); start += g.config.BatchSize {
		end := start + g.config.BatchSize
		if end > len(usable) {
			end = len(usable)
		}
		batch := usable[start:end]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			n, err := g.ingestBatch(ctx, batch)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			upserted += n
		}

		if err := pool.SubmitToType(pool.IngestPool, task); err != nil {
			// pool unavailable, run inline
			task()
		}
	}

	wg.Wait()

	report.Upserted = upserted
	aggErr := utilerrors.NewAggregate(errs)
	metrics.Get().RecordIngestion(report.Upserted, report.Skipped, aggErr)
	logger.Infow("Ingestion finished",
		"total", report.Total,
		"skipped", report.Skipped,
		"upserted", report.Upserted,
		"errors", len(errs),
	)

	return report, aggErr
}

func (g *Ingestor) ingestBatch(ctx context.Context, batch []model.ContextRecord) (int, error) {
	texts := make([]string, len(batch))
	for i, rec := range batch {
		texts[i] = rec.Content
	}

	embeddings, err := g.embedProvider.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed batch: %w", err)
	}
	if len(embeddings) != len(batch) {
		return 0, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(batch))
	}

	vectors := make([]*store.VectorRecord, len(batch))
	for i, rec := range batch {
		metadata := map[string]any{
			"content": rec.Content,
		}
		if rec.Title != "" {
			metadata["title"] = rec.Title
		}
		if rec.Category != "" {
			metadata["category"] = rec.Category
		}
		if rec.Year != "" {
			// the live index stores year as a number
			if y, ok := rec.Year.Int64(); ok {
				metadata["year"] = y
			} else {
				metadata["year"] = rec.Year.String()
			}
		}
		vectors[i] = &store.VectorRecord{
			ID:       rec.ID,
			Values:   embeddings[i],
			Metadata: metadata,
		}
	}

	return g.store.Upsert(ctx, vectors)
}
