package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	pipelineopts "github.com/gireesh-ai/portfolio/pkg/options/pipeline"
)

// scriptedChat returns one scripted result per call, in order.
type scriptedChat struct {
	replies  []string
	errs     []error
	requests []*llm.ChatRequest
}

func (s *scriptedChat) Chat(_ context.Context, req *llm.ChatRequest) (string, error) {
	i := len(s.requests)
	s.requests = append(s.requests, req)
	var reply string
	var err error
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return reply, err
}

func (s *scriptedChat) Name() string { return "scripted" }

func newTestAnswerer(vs *fakeVectorStore, chat *scriptedChat) *Answerer {
	retriever := NewRetriever(vs, &fakeEmbedder{vector: []float32{0.1}}, nil)
	return NewAnswerer(retriever, chat, nil, nil)
}

func TestAskPrimarySuccess(t *testing.T) {
	vs := &fakeVectorStore{matches: []*model.RetrievalMatch{
		{ID: "a", Score: 0.9, Metadata: map[string]any{"title": "A", "content": "x"}},
	}}
	chat := &scriptedChat{replies: []string{"the answer"}}

	result, err := newTestAnswerer(vs, chat).Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Answer)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "a", result.Sources[0].ID)

	require.Len(t, chat.requests, 1)
	req := chat.requests[0]
	assert.Equal(t, "gpt-5", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "Context:\nA\nx\n\nQuestion: what?", req.Messages[1].Content)
}

func TestAskFallbackUsesIdenticalPrompt(t *testing.T) {
	vs := &fakeVectorStore{}
	chat := &scriptedChat{
		replies: []string{"", "recovered"},
		errs:    []error{errors.New("rate limited"), nil},
	}

	result, err := newTestAnswerer(vs, chat).Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Answer)

	require.Len(t, chat.requests, 2)
	assert.Equal(t, "gpt-5", chat.requests[0].Model)
	assert.Equal(t, "gpt-4o-mini", chat.requests[1].Model)
	assert.Equal(t, chat.requests[0].Messages, chat.requests[1].Messages)
}

func TestAskNoFallbackOnEmptyReply(t *testing.T) {
	vs := &fakeVectorStore{}
	chat := &scriptedChat{replies: []string{""}}

	result, err := newTestAnswerer(vs, chat).Ask(context.Background(), "what?")
	require.NoError(t, err)

	// an empty reply without an error is the primary's final word
	assert.Equal(t, PlaceholderAnswer, result.Answer)
	assert.Len(t, chat.requests, 1)
}

func TestAskBothModelsFail(t *testing.T) {
	vs := &fakeVectorStore{}
	chat := &scriptedChat{errs: []error{errors.New("down"), errors.New("also down")}}

	result, err := newTestAnswerer(vs, chat).Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderAnswer, result.Answer)
	assert.Equal(t, []model.RetrievalMatch{}, result.Sources)
}

func TestAskZeroMatchesUsesEmptyContext(t *testing.T) {
	vs := &fakeVectorStore{}
	chat := &scriptedChat{replies: []string{"ok"}}

	result, err := newTestAnswerer(vs, chat).Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, []model.RetrievalMatch{}, result.Sources)

	require.Len(t, chat.requests, 1)
	assert.Contains(t, chat.requests[0].Messages[1].Content, EmptyContext)
}

func TestAskRetrievalErrorFails(t *testing.T) {
	vs := &fakeVectorStore{err: errors.New("index unreachable")}
	chat := &scriptedChat{replies: []string{"ok"}}

	_, err := newTestAnswerer(vs, chat).Ask(context.Background(), "what?")
	require.Error(t, err)
	assert.Empty(t, chat.requests)
}

func TestAskOptionalRetrievalDegrades(t *testing.T) {
	vs := &fakeVectorStore{err: errors.New("index unreachable")}
	chat := &scriptedChat{replies: []string{"ok"}}

	retriever := NewRetriever(vs, &fakeEmbedder{vector: []float32{0.1}}, nil)
	cfg := DefaultAnswererConfig()
	cfg.RetrievalMode = pipelineopts.RetrievalOptional
	answerer := NewAnswerer(retriever, chat, nil, cfg)

	result, err := answerer.Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Answer)
	assert.Equal(t, []model.RetrievalMatch{}, result.Sources)

	require.Len(t, chat.requests, 1)
	assert.Contains(t, chat.requests[0].Messages[1].Content, EmptyContext)
}

func TestAskDegradedAnswerNotCached(t *testing.T) {
	cache, mr := newTestCache(t, true)
	retriever := NewRetriever(&fakeVectorStore{}, &fakeEmbedder{vector: []float32{0.1}}, nil)

	down := &scriptedChat{errs: []error{errors.New("down"), errors.New("also down")}}
	result, err := NewAnswerer(retriever, down, cache, nil).Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderAnswer, result.Answer)
	assert.Empty(t, mr.Keys())

	// once a model answers, the result is cached as usual
	up := &scriptedChat{replies: []string{"recovered"}}
	result, err = NewAnswerer(retriever, up, cache, nil).Ask(context.Background(), "what?")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Answer)
	assert.Len(t, mr.Keys(), 1)
}
