// Package pinecone provides options for the Pinecone client configuration.
package pinecone

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains Pinecone client configuration.
type Options struct {
	// APIKey authenticates against the Pinecone API. Prefer the
	// PINECONE_API_KEY environment variable over the command line.
	APIKey string `json:"-" mapstructure:"api-key"`

	// IndexHost is the host of the serverless index (from the console).
	IndexHost string `json:"index-host" mapstructure:"index-host"`

	// IndexName is the index name, used when IndexHost must be resolved.
	IndexName string `json:"index-name" mapstructure:"index-name"`

	// Namespace scopes all operations; empty means the default namespace.
	Namespace string `json:"namespace" mapstructure:"namespace"`

	// Timeout for connection and operations.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		IndexName: "portfolio",
		Timeout:   30 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.APIKey, options.Join(prefixes...)+"pinecone.api-key", o.APIKey, "Pinecone API key (DEPRECATED: use PINECONE_API_KEY env var instead).")
	fs.StringVar(&o.IndexHost, options.Join(prefixes...)+"pinecone.index-host", o.IndexHost, "Pinecone serverless index host.")
	fs.StringVar(&o.IndexName, options.Join(prefixes...)+"pinecone.index-name", o.IndexName, "Pinecone index name.")
	fs.StringVar(&o.Namespace, options.Join(prefixes...)+"pinecone.namespace", o.Namespace, "Pinecone namespace.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"pinecone.timeout", o.Timeout, "Connection and operation timeout.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.APIKey == "" {
		errs = append(errs, fmt.Errorf("missing required environment variable: PINECONE_API_KEY"))
	}
	if o.IndexHost == "" && o.IndexName == "" {
		errs = append(errs, fmt.Errorf("pinecone index-host or index-name is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("pinecone timeout must be positive"))
	}
	return errs
}

// Complete completes the options with defaults.
func (o *Options) Complete() error {
	if o.APIKey == "" {
		o.APIKey = os.Getenv("PINECONE_API_KEY")
	}
	return nil
}
