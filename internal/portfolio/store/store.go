// Package store provides the storage layer: vector search, OTP codes
// and resume requests.
package store

import (
	"context"
	"errors"

	"github.com/gireesh-ai/portfolio/internal/model"
)

// ErrOTPNotFound is returned when no code is stored for an email.
var ErrOTPNotFound = errors.New("otp not found")

// VectorRecord is a single vector with its metadata, ready for upsert.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// VectorStore is the vector index used for retrieval.
type VectorStore interface {
	// EnsureIndex makes sure the backing index or collection exists.
	EnsureIndex(ctx context.Context, dimension int) error

	// Upsert writes records to the index and returns the number stored.
	Upsert(ctx context.Context, records []*VectorRecord) (int, error)

	// Search returns the topK nearest matches for the embedding,
	// ordered by descending score. Match indexes are filled in 0..n-1.
	Search(ctx context.Context, embedding []float32, topK int) ([]*model.RetrievalMatch, error)

	// Stats returns the number of vectors in the index.
	Stats(ctx context.Context) (int64, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}

// OTPStore persists pending one-time passcodes.
type OTPStore interface {
	// Put stores a code for the email, replacing any outstanding one.
	// The email must already be lowercased by the caller.
	Put(ctx context.Context, code *model.OTPCode) error

	// Consume atomically removes and returns the stored code for the
	// email, but only when it equals the presented code. A wrong guess
	// leaves the stored code in place. Returns ErrOTPNotFound when
	// nothing matches. Expiry is NOT checked here, the caller decides
	// what a stale code means.
	Consume(ctx context.Context, email, code string) (*model.OTPCode, error)
}

// ResumeStore persists resume requests.
type ResumeStore interface {
	Create(ctx context.Context, req *model.ResumeRequest) error
}
