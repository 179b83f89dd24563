// Package storage defines the common contract for backing store clients
// and a registry that health-checks and closes them as a group. Each
// backend (Redis, PostgreSQL, Milvus, etc.) implements Client; the
// server registers its clients in a Manager and drives /healthz and
// shutdown through it.
package storage

import (
	"context"
	"time"
)

// Client is the base interface that all storage clients must implement.
type Client interface {
	// Name returns the storage type name for identification purposes.
	// This should be a lowercase identifier like "redis" or "postgres".
	Name() string

	// Ping checks if the connection to the storage backend is alive.
	// It should perform a lightweight operation to verify connectivity.
	Ping(ctx context.Context) error

	// Close closes the connection gracefully, releasing all resources.
	// Close should be idempotent and safe to call multiple times.
	Close() error

	// Health returns a HealthChecker function that can be called to
	// check the storage health status.
	Health() HealthChecker
}

// HealthChecker is a function type that performs health checks on storage
// systems. It encapsulates the health check logic and can be called
// independently without direct access to the storage client.
type HealthChecker func() error

// HealthStatus represents the result of a health check operation.
type HealthStatus struct {
	// Name identifies the storage instance being checked.
	Name string

	// Healthy indicates whether the storage is functioning properly.
	Healthy bool

	// Latency measures how long the health check took to complete.
	Latency time.Duration

	// Error contains the error details if the health check failed.
	// This is nil when Healthy is true.
	Error error
}

// Factory is an interface for creating storage clients. It encapsulates
// the client creation logic and allows for dependency injection and
// testing with mock implementations.
type Factory interface {
	// Create creates and initializes a new storage client. The returned
	// client should be ready to use (connected and verified).
	Create(ctx context.Context) (Client, error)
}
