package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// ResumeService records resume requests.
type ResumeService struct {
	store store.ResumeStore
}

// NewResumeService creates the resume service.
func NewResumeService(resumeStore store.ResumeStore) *ResumeService {
	return &ResumeService{store: resumeStore}
}

// Request stores a resume request with trimmed fields.
func (s *ResumeService) Request(ctx context.Context, name, email string) error {
	req := &model.ResumeRequest{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := s.store.Create(ctx, req); err != nil {
		return errors.ErrResumeStoreFailed.WithCause(err)
	}

	metrics.Get().RecordResumeRequest()
	logger.Infow("Resume request stored", "email", req.Email)
	return nil
}
