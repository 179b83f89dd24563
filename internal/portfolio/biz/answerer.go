package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	pipelineopts "github.com/gireesh-ai/portfolio/pkg/options/pipeline"
)

// PlaceholderAnswer is returned when both generation attempts fail or
// come back empty.
const PlaceholderAnswer = "I could not generate an answer based on the available context."

// AnswererConfig configures the question answering pipeline.
type AnswererConfig struct {
	// SystemPrompt constrains the assistant to the supplied context.
	SystemPrompt string
	// PrimaryModel is tried first.
	PrimaryModel string
	// FallbackModel gets exactly one retry with the identical prompt.
	FallbackModel string
	// Temperature is the sampling temperature for both attempts.
	Temperature float64
	// RetrievalMode decides whether a retrieval failure fails the
	// request (required) or degrades to the empty context (optional).
	RetrievalMode string
}

// DefaultAnswererConfig returns the default configuration.
func DefaultAnswererConfig() *AnswererConfig {
	return &AnswererConfig{
		SystemPrompt:  pipelineopts.DefaultSystemPrompt,
		PrimaryModel:  "gpt-5",
		FallbackModel: "gpt-4o-mini",
		Temperature:   0.7,
		RetrievalMode: pipelineopts.RetrievalRequired,
	}
}

// Answerer runs the retrieval-augmented question answering pipeline.
type Answerer struct {
	retriever    *Retriever
	chatProvider llm.ChatProvider
	cache        *QueryCache
	config       *AnswererConfig
}

// NewAnswerer creates the ask pipeline. cache may be nil.
func NewAnswerer(retriever *Retriever, chatProvider llm.ChatProvider, cache *QueryCache, config *AnswererConfig) *Answerer {
	if config == nil {
		config = DefaultAnswererConfig()
	}
	return &Answerer{
		retriever:    retriever,
		chatProvider: chatProvider,
		cache:        cache,
		config:       config,
	}
}

// Ask answers a question from the knowledge base. In required retrieval
// mode an embedding or search error fails the request; in optional mode
// it degrades to the empty context. Generation never fails the request:
// if both models fail the placeholder answer is returned with the
// sources.
func (a *Answerer) Ask(ctx context.Context, question string) (*model.AskResult, error) {
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, question); err == nil && cached != nil {
			metrics.Get().RecordAsk(true, false, nil)
			return cached, nil
		}
	}

	matches, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		if a.config.RetrievalMode != pipelineopts.RetrievalOptional {
			metrics.Get().RecordAsk(false, false, err)
			return nil, err
		}
		logger.Warnw("Retrieval failed, answering without context", "error", err)
		matches = nil
	}

	promptContext, sources := FormatAskContext(matches)

	answer := a.generate(ctx, question, promptContext)
	degraded := answer == ""
	if degraded {
		answer = PlaceholderAnswer
	}
	metrics.Get().RecordAsk(false, degraded, nil)

	result := &model.AskResult{
		Answer:  answer,
		Sources: sources,
	}

	// a placeholder answer is transient; caching it would pin the
	// outage for the full TTL
	if a.cache != nil && !degraded {
		_ = a.cache.Set(ctx, question, result)
	}

	return result, nil
}

// generate runs the primary model, then exactly one fallback retry with
// the identical prompt. Returns empty string when both attempts fail.
func (a *Answerer) generate(ctx context.Context, question, promptContext string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.config.SystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", promptContext, question)},
	}

	answer, err := a.complete(ctx, a.config.PrimaryModel, messages)
	if err == nil {
		logger.Infow("Answer generated", "model", a.config.PrimaryModel, "length", len(answer))
		return answer
	}
	logger.Warnw("Primary model failed, falling back",
		"primary", a.config.PrimaryModel,
		"fallback", a.config.FallbackModel,
		"error", err,
	)
	metrics.Get().RecordModelFallback()

	answer, err = a.complete(ctx, a.config.FallbackModel, messages)
	if err != nil {
		logger.Errorw("Fallback model failed", "model", a.config.FallbackModel, "error", err)
		return ""
	}

	logger.Infow("Answer generated", "model", a.config.FallbackModel, "length", len(answer))
	return answer
}

func (a *Answerer) complete(ctx context.Context, model string, messages []llm.Message) (string, error) {
	start := time.Now()
	resp, err := a.chatProvider.Chat(ctx, &llm.ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: a.config.Temperature,
	})
	metrics.Get().RecordModelCall(time.Since(start), err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}
