package redis

import (
	"context"
	"fmt"

	"github.com/gireesh-ai/portfolio/pkg/component/storage"
	options "github.com/gireesh-ai/portfolio/pkg/options/redis"
)

// Options is re-exported from pkg/options/redis for convenience.
type Options = options.Options

// NewOptions is re-exported from pkg/options/redis for convenience.
var NewOptions = options.NewOptions

// Factory builds Redis clients from a fixed set of options. It implements
// storage.Factory so the session and rate-limit stores can be constructed
// through the same registry path as the other backends.
type Factory struct {
	opts *options.Options
}

// NewFactory returns a factory bound to opts.
func NewFactory(opts *options.Options) *Factory {
	return &Factory{opts: opts}
}

// Create connects a new Redis client and verifies connectivity before
// returning it.
func (f *Factory) Create(ctx context.Context) (storage.Client, error) {
	if f.opts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}

	client, err := NewWithContext(ctx, f.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return client, nil
}

// Options returns the options the factory was built with.
func (f *Factory) Options() *options.Options {
	return f.opts
}

// Clone returns a new factory holding a shallow copy of the options, so a
// caller can tweak one field without affecting the original.
func (f *Factory) Clone() *Factory {
	optsCopy := *f.opts
	return &Factory{opts: &optsCopy}
}

var _ storage.Factory = (*Factory)(nil)
