package biz

import (
	"context"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/llm"
)

// Service is the business surface consumed by the HTTP handlers.
type Service interface {
	// Ask answers a question from the knowledge base.
	Ask(ctx context.Context, question string) (*model.AskResult, error)

	// Chat produces an assistant reply for an authenticated visitor.
	Chat(ctx context.Context, messages []llm.Message) string

	// SendOTP generates, stores and delivers a verification code.
	SendOTP(ctx context.Context, email, name string) error

	// VerifyOTP consumes a code and returns the stored name on success.
	VerifyOTP(ctx context.Context, email, code string) (string, error)

	// RequestResume stores a resume request.
	RequestResume(ctx context.Context, name, email string) error

	// Stats reports knowledge base statistics.
	Stats(ctx context.Context) (map[string]any, error)
}

// PortfolioService composes the pipeline components into the Service
// surface.
type PortfolioService struct {
	answerer    *Answerer
	chat        *ChatService
	otp         *OTPService
	resume      *ResumeService
	vectorStore store.VectorStore
}

// NewPortfolioService creates the composite service.
func NewPortfolioService(
	answerer *Answerer,
	chat *ChatService,
	otp *OTPService,
	resume *ResumeService,
	vectorStore store.VectorStore,
) *PortfolioService {
	return &PortfolioService{
		answerer:    answerer,
		chat:        chat,
		otp:         otp,
		resume:      resume,
		vectorStore: vectorStore,
	}
}

// Ask implements Service.
func (s *PortfolioService) Ask(ctx context.Context, question string) (*model.AskResult, error) {
	return s.answerer.Ask(ctx, question)
}

// Chat implements Service.
func (s *PortfolioService) Chat(ctx context.Context, messages []llm.Message) string {
	return s.chat.Chat(ctx, messages)
}

// SendOTP implements Service.
func (s *PortfolioService) SendOTP(ctx context.Context, email, name string) error {
	return s.otp.Send(ctx, email, name)
}

// VerifyOTP implements Service.
func (s *PortfolioService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	return s.otp.Verify(ctx, email, code)
}

// RequestResume implements Service.
func (s *PortfolioService) RequestResume(ctx context.Context, name, email string) error {
	return s.resume.Request(ctx, name, email)
}

// Stats implements Service.
func (s *PortfolioService) Stats(ctx context.Context) (map[string]any, error) {
	count, err := s.vectorStore.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"vector_count": count,
	}, nil
}

var _ Service = (*PortfolioService)(nil)
