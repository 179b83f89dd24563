package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/llm"
)

// EmptyContext is the explicit "nothing retrieved" state for the ask
// pipeline. It appears verbatim in the generation prompt.
const EmptyContext = "No relevant context retrieved from Pinecone."

// RetrieverConfig configures the retriever.
type RetrieverConfig struct {
	// TopK is the number of matches to request.
	TopK int
}

// Retriever embeds a query and searches the vector index.
type Retriever struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	config        *RetrieverConfig
}

// NewRetriever creates a retriever.
func NewRetriever(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider, config *RetrieverConfig) *Retriever {
	if config == nil {
		config = &RetrieverConfig{TopK: 5}
	}
	if config.TopK <= 0 {
		config.TopK = 5
	}
	return &Retriever{
		store:         vectorStore,
		embedProvider: embedProvider,
		config:        config,
	}
}

// Retrieve embeds the query and returns the topK nearest matches.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]*model.RetrievalMatch, error) {
	start := time.Now()

	embedding, err := r.embedProvider.EmbedSingle(ctx, query)
	if err != nil {
		metrics.Get().RecordRetrieval(time.Since(start), err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := r.store.Search(ctx, embedding, r.config.TopK)
	metrics.Get().RecordRetrieval(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	return matches, nil
}

// FormatAskContext assembles the generation context for the ask pipeline.
// Each match becomes a "{title} (Year: {year})\n{content}" block; blocks
// that trim to nothing are dropped from the context but every match stays
// in sources. Zero matches yield the EmptyContext sentinel and empty sources.
func FormatAskContext(matches []*model.RetrievalMatch) (string, []model.RetrievalMatch) {
	if len(matches) == 0 {
		return EmptyContext, []model.RetrievalMatch{}
	}

	sources := make([]model.RetrievalMatch, 0, len(matches))
	blocks := make([]string, 0, len(matches))

	for i, match := range matches {
		m := *match
		m.Index = i
		if m.Metadata == nil {
			m.Metadata = map[string]any{}
		}
		sources = append(sources, m)

		title := metadataString(m.Metadata, "title")
		if title == "" {
			title = fmt.Sprintf("Source %d", i+1)
		}
		year := metadataString(m.Metadata, "year")
		if year != "" {
			year = fmt.Sprintf(" (Year: %s)", year)
		}
		content := metadataString(m.Metadata, "content")

		block := strings.TrimSpace(fmt.Sprintf("%s%s\n%s", title, year, content))
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	context := strings.Join(blocks, "\n\n")
	if context == "" {
		context = EmptyContext
	}

	return context, sources
}

// FormatChatContext assembles the best-effort context bullets for the chat
// pipeline. Matches without content are skipped; no usable content yields
// an empty string.
func FormatChatContext(matches []*model.RetrievalMatch) string {
	bullets := make([]string, 0, len(matches))
	for _, match := range matches {
		content := metadataString(match.Metadata, "content")
		if content == "" {
			continue
		}
		title := metadataString(match.Metadata, "title")
		if title != "" {
			title += ": "
		}
		bullets = append(bullets, "- "+title+content)
	}
	return strings.Join(bullets, "\n")
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	switch v := metadata[key].(type) {
	case string:
		return v
	case float64:
		// numeric years arrive as float64 from JSON metadata
		return fmt.Sprintf("%.0f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}
