// Package options contains flags and options for the ingestion tool.
package options

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	cliflag "github.com/gireesh-ai/portfolio/pkg/app/cliflag"
	llmopts "github.com/gireesh-ai/portfolio/pkg/options/llm"
	logopts "github.com/gireesh-ai/portfolio/pkg/options/logger"
	vectoropts "github.com/gireesh-ai/portfolio/pkg/options/vector"
)

// IngestOptions contains the configuration options for an ingestion run.
type IngestOptions struct {
	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// VectorOptions selects and configures the vector store backend.
	VectorOptions *vectoropts.Options `json:"vector" mapstructure:"vector"`

	// EmbeddingOptions configures the embedding provider.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Source is the JSON records source, a local file path or an HTTP(S) URL.
	Source string `json:"source" mapstructure:"source"`

	// BatchSize is the number of records embedded and upserted per batch.
	BatchSize int `json:"batch-size" mapstructure:"batch-size"`

	// Timeout bounds the whole ingestion run.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// FetchRetries is the retry count when fetching Source over HTTP.
	FetchRetries int `json:"fetch-retries" mapstructure:"fetch-retries"`
}

// NewIngestOptions creates an IngestOptions instance with default values.
func NewIngestOptions() *IngestOptions {
	return &IngestOptions{
		LogOptions:       logopts.NewOptions(),
		VectorOptions:    vectoropts.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		BatchSize:        32,
		Timeout:          10 * time.Minute,
		FetchRetries:     3,
	}
}

// Flags returns flags for the ingestion tool by section name.
func (o *IngestOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.VectorOptions.AddFlags(fss.FlagSet("vector"))
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"), "embedding")

	ingest := fss.FlagSet("ingest")
	ingest.StringVar(&o.Source, "source", o.Source, "Records source, a JSON file path or HTTP(S) URL.")
	ingest.IntVar(&o.BatchSize, "batch-size", o.BatchSize, "Records embedded and upserted per batch.")
	ingest.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout for the whole ingestion run.")
	ingest.IntVar(&o.FetchRetries, "fetch-retries", o.FetchRetries, "Retries when fetching the source over HTTP.")
	return fss
}

// Complete completes all the required options.
func (o *IngestOptions) Complete() error {
	for _, c := range []interface{ Complete() error }{
		o.LogOptions,
		o.VectorOptions,
		o.EmbeddingOptions,
	} {
		if err := c.Complete(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates all the required options.
func (o *IngestOptions) Validate() error {
	var errs []error

	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.VectorOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate()...)

	if o.Source == "" {
		errs = append(errs, fmt.Errorf("source is required"))
	}
	if o.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch-size must be positive"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}

	return utilerrors.NewAggregate(errs)
}
