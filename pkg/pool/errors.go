package pool

import "errors"

var (
	// ErrPoolClosed is returned when submitting to a released pool.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrPoolNotFound is returned when the named pool is not registered.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolAlreadyExists is returned when registering a duplicate name.
	ErrPoolAlreadyExists = errors.New("pool already exists")

	// ErrManagerNotInitialized is returned when the global manager is unavailable.
	ErrManagerNotInitialized = errors.New("pool manager not initialized")

	// ErrPoolOverload is returned when a nonblocking pool is full.
	ErrPoolOverload = errors.New("pool is overloaded")
)
