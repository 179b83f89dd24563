// Package huggingface implements the HuggingFace Inference API provider.
// It supports feature-extraction embeddings and text generation for models
// hosted on the HuggingFace Hub.
package huggingface

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gireesh-ai/portfolio/pkg/llm"
	"github.com/gireesh-ai/portfolio/pkg/utils/httpclient"
	"github.com/gireesh-ai/portfolio/pkg/utils/json"
)

// ProviderName identifies the HuggingFace provider.
const ProviderName = "huggingface"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// Config configures the HuggingFace provider.
type Config struct {
	// BaseURL is the Inference API base URL.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey is the HuggingFace API token.
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// EmbedModel is the model ID used for embeddings.
	EmbedModel string `json:"embed_model" mapstructure:"embed_model"`

	// ChatModel is the default model ID used for generation.
	ChatModel string `json:"chat_model" mapstructure:"chat_model"`

	// Timeout is the request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of request retries.
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// WaitForModel waits for a cold model to load instead of erroring.
	WaitForModel bool `json:"wait_for_model" mapstructure:"wait_for_model"`

	// ChatCompletionPrefixes lists model ID prefixes that must be called
	// through the OpenAI-compatible chat-completion endpoint with role
	// messages. Everything else goes through text generation with a
	// transcript prompt.
	ChatCompletionPrefixes []string `json:"chat_completion_prefixes" mapstructure:"chat_completion_prefixes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:                "https://api-inference.huggingface.co",
		EmbedModel:             "sentence-transformers/all-MiniLM-L6-v2",
		ChatModel:              "HuggingFaceH4/zephyr-7b-beta",
		Timeout:                120 * time.Second,
		MaxRetries:             3,
		WaitForModel:           true,
		ChatCompletionPrefixes: []string{"mistralai/"},
	}
}

// Provider implements llm.Provider against the HuggingFace Inference API.
type Provider struct {
	config *Config
	client *httpclient.Client
}

// NewProvider creates a HuggingFace provider from a config map.
func NewProvider(configMap map[string]any) (llm.Provider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["embed_model"].(string); ok && v != "" {
		cfg.EmbedModel = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v > 0 {
		cfg.MaxRetries = v
	}
	if v, ok := configMap["wait_for_model"].(bool); ok {
		cfg.WaitForModel = v
	}
	if v, ok := configMap["chat_completion_prefixes"].([]string); ok && len(v) > 0 {
		cfg.ChatCompletionPrefixes = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("huggingface: api_key is required")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig creates a HuggingFace provider from structured config.
func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout, cfg.MaxRetries),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

type embeddingRequest struct {
	Inputs  []string         `json:"inputs"`
	Options *endpointOptions `json:"options,omitempty"`
}

type endpointOptions struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
}

// Embed generates embeddings via the feature-extraction pipeline.
// Some models return one vector per input, others a matrix of token-level
// vectors per input; token matrices are collapsed by element-wise mean.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{
		Inputs: texts,
	}
	if p.config.WaitForModel {
		reqBody.Options = &endpointOptions{WaitForModel: true}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", p.config.BaseURL, p.config.EmbedModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.client.DoRequest(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var embeddings [][]float32
	if err := json.Unmarshal(bodyBytes, &embeddings); err != nil {
		var tokenEmbeddings [][][]float32
		if err2 := json.Unmarshal(bodyBytes, &tokenEmbeddings); err2 != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		embeddings = make([][]float32, len(tokenEmbeddings))
		for i, tokens := range tokenEmbeddings {
			embeddings[i] = MeanPool(tokens)
		}
	}

	return embeddings, nil
}

// MeanPool collapses token-level vectors into one vector by element-wise
// arithmetic mean. Returns nil for an empty matrix.
func MeanPool(tokens [][]float32) []float32 {
	if len(tokens) == 0 {
		return nil
	}
	dim := len(tokens[0])
	out := make([]float32, dim)
	for _, token := range tokens {
		for j, v := range token {
			if j < dim {
				out[j] += v
			}
		}
	}
	for j := range out {
		out[j] /= float32(len(tokens))
	}
	return out
}

// EmbedSingle generates an embedding for a single text.
func (p *Provider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("invalid embedding response")
	}
	return embeddings[0], nil
}

type textGenRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters *textGenParams   `json:"parameters,omitempty"`
	Options    *endpointOptions `json:"options,omitempty"`
}

type textGenParams struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type textGenResponse struct {
	GeneratedText string `json:"generated_text"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat generates a completion. Models matching ChatCompletionPrefixes go
// through the chat-completion endpoint with role messages; all others go
// through text generation with a transcript prompt.
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.config.ChatModel
	}

	if p.usesChatCompletion(model) {
		return p.chatCompletion(ctx, model, req)
	}
	return p.textGeneration(ctx, model, req)
}

func (p *Provider) usesChatCompletion(model string) bool {
	for _, prefix := range p.config.ChatCompletionPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func (p *Provider) chatCompletion(ctx context.Context, model string, req *llm.ChatRequest) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s/v1/chat/completions", p.config.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(httpReq)

	var resp chatCompletionResponse
	if err := p.client.DoJSON(httpReq, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) textGeneration(ctx context.Context, model string, req *llm.ChatRequest) (string, error) {
	reqBody := textGenRequest{
		Inputs: FormatTranscript(req.Messages),
		Parameters: &textGenParams{
			MaxNewTokens:   req.MaxTokens,
			Temperature:    req.Temperature,
			ReturnFullText: false,
		},
	}
	if p.config.WaitForModel {
		reqBody.Options = &endpointOptions{WaitForModel: true}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.config.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(httpReq)

	var responses []textGenResponse
	if err := p.client.DoJSON(httpReq, &responses); err != nil {
		return "", err
	}

	if len(responses) == 0 {
		return "", fmt.Errorf("empty generation response")
	}

	return strings.TrimSpace(responses[0].GeneratedText), nil
}

// FormatTranscript renders messages as an uppercase-role transcript ending
// with an open assistant turn, the prompt shape text-generation models expect:
//
//	SYSTEM: ...
//	USER: ...
//	ASSISTANT:
func FormatTranscript(messages []llm.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(strings.ToUpper(string(msg.Role)))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("ASSISTANT:")
	return b.String()
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
}
