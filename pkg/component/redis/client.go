// Package redis provides the Redis client used for sessions, OTP codes and
// rate-limit counters.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/gireesh-ai/portfolio/pkg/component/storage"
	options "github.com/gireesh-ai/portfolio/pkg/options/redis"
)

// Client wraps go-redis with the storage.Client interface while keeping the
// underlying client reachable for direct command use.
type Client struct {
	client *goredis.Client
	opts   *options.Options
}

var _ storage.Client = (*Client)(nil)

// New creates a Redis client from the provided options and verifies
// connectivity with an initial ping.
func New(opts *options.Options) (*Client, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext is New with caller-controlled timeout for the initial ping.
func NewWithContext(ctx context.Context, opts *options.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}

	if errs := opts.Validate(); len(errs) != 0 {
		return nil, fmt.Errorf("invalid redis options: %w", utilerrors.NewAggregate(errs))
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.Database,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolTimeout:  opts.PoolTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{client: rdb, opts: opts}, nil
}

// Name returns the storage type identifier.
func (c *Client) Name() string {
	return "redis"
}

// Ping checks that the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool. Safe to call more than once.
func (c *Client) Close() error {
	return c.client.Close()
}

// Health returns a HealthChecker backed by a short ping.
func (c *Client) Health() storage.HealthChecker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return c.Ping(ctx)
	}
}

// Client exposes the underlying go-redis client for direct command access.
func (c *Client) Client() *goredis.Client {
	return c.client
}

// Options returns the options the client was built with.
func (c *Client) Options() *options.Options {
	return c.opts
}

// Do executes an arbitrary Redis command.
func (c *Client) Do(ctx context.Context, args ...interface{}) *goredis.Cmd {
	return c.client.Do(ctx, args...)
}

// Pipeline returns a pipeline for batching commands in one round trip.
func (c *Client) Pipeline() goredis.Pipeliner {
	return c.client.Pipeline()
}

// TxPipeline returns a pipeline whose commands execute atomically.
func (c *Client) TxPipeline() goredis.Pipeliner {
	return c.client.TxPipeline()
}
