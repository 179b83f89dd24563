// Package app provides the knowledge base ingestion tool.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/cmd/ingest/app/options"
	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/biz"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/app"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	"github.com/gireesh-ai/portfolio/pkg/pool"
	"github.com/gireesh-ai/portfolio/pkg/utils/httpclient"
	"github.com/gireesh-ai/portfolio/pkg/utils/json"

	// register LLM providers
	_ "github.com/gireesh-ai/portfolio/pkg/llm/huggingface"
	_ "github.com/gireesh-ai/portfolio/pkg/llm/openai"
)

const (
	// Name is the name of the ingestion tool.
	Name = "portfolio-ingest"

	commandDesc = `Load context records into the vector index.

The tool reads a JSON array of records from a file or URL, embeds the
content of each record, and upserts the vectors in batches. Records
without an id or content are skipped.`
)

// fetchTimeout bounds a single source fetch attempt.
const fetchTimeout = 30 * time.Second

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewIngestOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

func run(opts *options.IngestOptions) app.RunFunc {
	return func() error {
		if err := opts.LogOptions.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := pool.InitGlobal(); err != nil {
			return fmt.Errorf("failed to initialize worker pools: %w", err)
		}
		defer func() { _ = pool.CloseGlobal() }()

		ctx, cancel := context.WithTimeout(setupSignalContext(), opts.Timeout)
		defer cancel()

		records, err := loadRecords(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		logger.Infow("Records loaded", "source", opts.Source, "count", len(records))

		vectorStore, cleanup, err := store.NewFromOptions(ctx, opts.VectorOptions)
		if err != nil {
			return err
		}
		defer cleanup()

		embedProvider, err := llm.NewEmbeddingProvider(opts.EmbeddingOptions.Provider, opts.EmbeddingOptions.ToConfigMap())
		if err != nil {
			return fmt.Errorf("failed to initialize embedding provider: %w", err)
		}

		ingestor := biz.NewIngestor(vectorStore, embedProvider, &biz.IngestorConfig{
			BatchSize: opts.BatchSize,
			Dimension: opts.VectorOptions.EmbeddingDim,
		})

		report, err := ingestor.Ingest(ctx, records)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}

		fmt.Printf("ingested %d of %d records (%d skipped)\n", report.Upserted, report.Total, report.Skipped)
		return nil
	}
}

// loadRecords reads the record array from a local file or an HTTP(S) URL.
func loadRecords(ctx context.Context, opts *options.IngestOptions) ([]model.ContextRecord, error) {
	var records []model.ContextRecord

	if strings.HasPrefix(opts.Source, "http://") || strings.HasPrefix(opts.Source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.Source, nil)
		if err != nil {
			return nil, err
		}
		client := httpclient.NewClient(fetchTimeout, opts.FetchRetries)
		if err := client.DoJSON(req, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	data, err := os.ReadFile(opts.Source)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
		<-ch
		os.Exit(1) // second signal forces exit
	}()

	return ctx
}
