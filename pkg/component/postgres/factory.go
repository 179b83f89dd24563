package postgres

import (
	"context"
	"fmt"

	"github.com/gireesh-ai/portfolio/pkg/component/storage"
	options "github.com/gireesh-ai/portfolio/pkg/options/postgres"
)

// Options is re-exported from pkg/options/postgres for convenience.
type Options = options.Options

// NewOptions is re-exported from pkg/options/postgres for convenience.
var NewOptions = options.NewOptions

// Factory builds PostgreSQL clients from a fixed set of options and
// implements storage.Factory.
type Factory struct {
	opts *Options
}

// NewFactory returns a factory bound to opts.
func NewFactory(opts *Options) *Factory {
	return &Factory{opts: opts}
}

// Create connects a new PostgreSQL client and verifies connectivity before
// returning it.
func (f *Factory) Create(ctx context.Context) (storage.Client, error) {
	if f.opts == nil {
		return nil, fmt.Errorf("postgres options cannot be nil")
	}

	client, err := NewWithContext(ctx, f.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres client: %w", err)
	}

	return client, nil
}

// Options returns the options the factory was built with.
func (f *Factory) Options() *Options {
	return f.opts
}

// Clone returns a new factory holding a shallow copy of the options.
func (f *Factory) Clone() *Factory {
	optsCopy := *f.opts
	return &Factory{opts: &optsCopy}
}

var _ storage.Factory = (*Factory)(nil)
