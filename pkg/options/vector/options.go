// Package vector selects and configures the vector index backend.
package vector

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
	milvusopts "github.com/gireesh-ai/portfolio/pkg/options/milvus"
	pineconeopts "github.com/gireesh-ai/portfolio/pkg/options/pinecone"
)

var _ options.IOptions = (*Options)(nil)

// Supported backends.
const (
	BackendPinecone = "pinecone"
	BackendMilvus   = "milvus"
)

// Options selects the vector store backend and carries per-backend options.
type Options struct {
	// Backend is the vector store backend (pinecone, milvus).
	Backend string `json:"backend" mapstructure:"backend"`

	// Pinecone contains Pinecone configuration.
	Pinecone *pineconeopts.Options `json:"pinecone" mapstructure:"pinecone"`

	// Milvus contains Milvus configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Collection is the collection (Milvus) or index (Pinecone) to query.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the embedding dimension, used when creating a
	// Milvus collection. all-MiniLM-L6-v2 produces 384 dimensions.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Backend:      BackendPinecone,
		Pinecone:     pineconeopts.NewOptions(),
		Milvus:       milvusopts.NewOptions(),
		Collection:   "portfolio_context",
		EmbeddingDim: 384,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Backend, options.Join(prefixes...)+"vector.backend", o.Backend, "Vector store backend (pinecone, milvus).")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"vector.collection", o.Collection, "Vector collection name.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"vector.embedding-dim", o.EmbeddingDim, "Embedding dimension.")

	if o.Pinecone == nil {
		o.Pinecone = pineconeopts.NewOptions()
	}
	o.Pinecone.AddFlags(fs, prefixes...)

	if o.Milvus == nil {
		o.Milvus = milvusopts.NewOptions()
	}
	o.Milvus.AddFlags(fs, prefixes...)
}

// Validate validates the options for the selected backend only.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Backend {
	case BackendPinecone:
		errs = append(errs, o.Pinecone.Validate()...)
	case BackendMilvus:
		errs = append(errs, o.Milvus.Validate()...)
	default:
		errs = append(errs, fmt.Errorf("unknown vector backend: %s", o.Backend))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("vector embedding-dim must be positive"))
	}
	return errs
}

// Complete completes the options with defaults.
func (o *Options) Complete() error {
	if o.Pinecone == nil {
		o.Pinecone = pineconeopts.NewOptions()
	}
	if o.Milvus == nil {
		o.Milvus = milvusopts.NewOptions()
	}
	return o.Pinecone.Complete()
}
