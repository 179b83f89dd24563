package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gireesh-ai/portfolio/internal/model"
)

// PostgresResumeStore persists resume requests in a relational table.
type PostgresResumeStore struct {
	db *gorm.DB
}

// NewPostgresResumeStore creates the store and migrates its table.
func NewPostgresResumeStore(db *gorm.DB) (*PostgresResumeStore, error) {
	if err := db.AutoMigrate(&model.ResumeRequest{}); err != nil {
		return nil, fmt.Errorf("failed to migrate resume_requests table: %w", err)
	}
	return &PostgresResumeStore{db: db}, nil
}

// Create appends a resume request.
func (s *PostgresResumeStore) Create(ctx context.Context, req *model.ResumeRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to store resume request: %w", err)
	}
	return nil
}

var _ ResumeStore = (*PostgresResumeStore)(nil)
