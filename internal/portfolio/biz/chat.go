package biz

import (
	"context"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	pipelineopts "github.com/gireesh-ai/portfolio/pkg/options/pipeline"
)

// Chat pipeline fixed strings.
const (
	// DefaultChatSystemPrompt is the persona prompt for the chat assistant.
	DefaultChatSystemPrompt = `You are Gireesh's personal AI assistant.
You know everything about his skills, projects, and achievements.
Always answer naturally and helpfully in first-person as if you are Gireesh.
Mention real skills like MERN, Flutter, AI/ML, Next.js.
Never answer unrelated or personal private questions.`

	// chatContextHeader precedes the retrieved context bullets.
	chatContextHeader = "Use the following personal context when helpful. If irrelevant, answer normally but stay consistent with it."

	// FallbackReplyRetry is sent when every model fails to produce text.
	FallbackReplyRetry = "I am having trouble generating a response right now. Please try again in a moment."

	// FallbackReplyUnavailable is sent when the pipeline itself errors.
	FallbackReplyUnavailable = "I am temporarily unavailable. Please try again shortly."
)

// ChatConfig configures the chat pipeline.
type ChatConfig struct {
	// SystemPrompt is the persona prompt. Retrieved context is appended.
	SystemPrompt string
	// CandidateModels are tried in order against the primary provider.
	CandidateModels []string
	// LastResortModel runs on the secondary provider when every
	// candidate fails.
	LastResortModel string
	// MaxTokens caps the generated reply length.
	MaxTokens int
	// Temperature is the sampling temperature.
	Temperature float64
	// RetrievalMode decides whether a retrieval failure aborts the
	// reply (required) or degrades to no extra context (optional).
	RetrievalMode string
}

// DefaultChatConfig returns the default configuration.
func DefaultChatConfig() *ChatConfig {
	return &ChatConfig{
		SystemPrompt: DefaultChatSystemPrompt,
		CandidateModels: []string{
			"HuggingFaceH4/zephyr-7b-beta",
			"mistralai/Mistral-7B-Instruct-v0.2",
		},
		LastResortModel: "gpt-4o",
		MaxTokens:       512,
		Temperature:     0.7,
		RetrievalMode:   pipelineopts.RetrievalOptional,
	}
}

// ChatService runs the cookie-gated chat assistant. Retrieval is
// best-effort: failures downgrade to no extra context, never an error.
type ChatService struct {
	retriever       *Retriever
	primaryProvider llm.ChatProvider
	lastResort      llm.ChatProvider
	config          *ChatConfig
}

// NewChatService creates a chat service. retriever and lastResort may be
// nil; the pipeline degrades accordingly.
func NewChatService(retriever *Retriever, primaryProvider, lastResort llm.ChatProvider, config *ChatConfig) *ChatService {
	if config == nil {
		config = DefaultChatConfig()
	}
	return &ChatService{
		retriever:       retriever,
		primaryProvider: primaryProvider,
		lastResort:      lastResort,
		config:          config,
	}
}

// Chat produces a reply for the conversation. Once the caller is
// authenticated this never fails: every error path collapses to an
// apologetic fallback reply.
func (s *ChatService) Chat(ctx context.Context, messages []llm.Message) string {
	system, err := s.buildSystemPrompt(ctx, messages)
	if err != nil {
		metrics.Get().RecordChat(true)
		return FallbackReplyUnavailable
	}

	full := make([]llm.Message, 0, len(messages)+1)
	full = append(full, llm.Message{Role: llm.RoleSystem, Content: system})
	full = append(full, messages...)

	reply := s.tryCandidates(ctx, full)
	if reply == "" && s.lastResort != nil {
		reply = s.tryLastResort(ctx, full)
	}
	degraded := reply == ""
	if degraded {
		reply = FallbackReplyRetry
	}
	metrics.Get().RecordChat(degraded)
	return reply
}

// buildSystemPrompt appends retrieved context to the persona prompt when
// retrieval produces usable content.
func (s *ChatService) buildSystemPrompt(ctx context.Context, messages []llm.Message) (string, error) {
	system := s.config.SystemPrompt

	chatContext, err := s.retrieveContext(ctx, messages)
	if err != nil {
		return "", err
	}
	if chatContext != "" {
		system = system + "\n\n" + chatContextHeader + "\n" + chatContext + "\n"
	}

	return system, nil
}

// retrieveContext finds the latest user message and retrieves context for
// it. In optional mode any failure degrades to the empty-context state;
// in required mode the error propagates.
func (s *ChatService) retrieveContext(ctx context.Context, messages []llm.Message) (string, error) {
	if s.retriever == nil {
		return "", nil
	}

	query := LatestUserMessage(messages)
	if query == "" {
		return "", nil
	}

	matches, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		if s.config.RetrievalMode == pipelineopts.RetrievalRequired {
			logger.Errorw("Chat retrieval failed", "error", err)
			return "", err
		}
		logger.Warnw("Chat retrieval failed, continuing without context", "error", err)
		return "", nil
	}

	return FormatChatContext(matches), nil
}

func (s *ChatService) tryCandidates(ctx context.Context, messages []llm.Message) string {
	for _, model := range s.config.CandidateModels {
		start := time.Now()
		reply, err := s.primaryProvider.Chat(ctx, &llm.ChatRequest{
			Model:       model,
			Messages:    messages,
			Temperature: s.config.Temperature,
			MaxTokens:   s.config.MaxTokens,
		})
		metrics.Get().RecordModelCall(time.Since(start), err)
		if err != nil {
			logger.Warnw("Chat model failed, trying next", "model", model, "error", err)
			continue
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			logger.Warnw("Chat model returned empty reply, trying next", "model", model)
			continue
		}
		logger.Infow("Chat reply generated", "model", model, "length", len(reply))
		return reply
	}
	return ""
}

func (s *ChatService) tryLastResort(ctx context.Context, messages []llm.Message) string {
	start := time.Now()
	reply, err := s.lastResort.Chat(ctx, &llm.ChatRequest{
		Model:       s.config.LastResortModel,
		Messages:    messages,
		Temperature: s.config.Temperature,
	})
	metrics.Get().RecordModelCall(time.Since(start), err)
	if err != nil {
		logger.Errorw("Last resort chat model failed", "model", s.config.LastResortModel, "error", err)
		return ""
	}
	return strings.TrimSpace(reply)
}

// LatestUserMessage returns the content of the last user message with
// non-empty content, or empty string.
func LatestUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser && strings.TrimSpace(messages[i].Content) != "" {
			return messages[i].Content
		}
	}
	return ""
}
