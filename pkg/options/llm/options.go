// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// ProviderOptions configures one LLM provider (embedding or chat).
type ProviderOptions struct {
	// Provider is the provider name (huggingface, openai).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the provider API key. Prefer the APIKeyEnv variable over
	// passing the key on the command line.
	APIKey string `json:"-" mapstructure:"api-key"`

	// APIKeyEnv names the environment variable consulted when APIKey is empty.
	APIKeyEnv string `json:"api-key-env" mapstructure:"api-key-env"`

	// Model is the default model name.
	Model string `json:"model" mapstructure:"model"`

	// Timeout is the request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of request retries.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// Organization is the organization ID (OpenAI, optional).
	Organization string `json:"organization" mapstructure:"organization"`
}

// NewProviderOptions creates ProviderOptions with generic defaults.
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// NewEmbeddingOptions creates defaults for the embedding provider.
func NewEmbeddingOptions() *ProviderOptions {
	opts := NewProviderOptions()
	opts.Provider = "huggingface"
	opts.BaseURL = "https://api-inference.huggingface.co"
	opts.Model = "sentence-transformers/all-MiniLM-L6-v2"
	opts.APIKeyEnv = "HF_TOKEN"
	return opts
}

// NewChatOptions creates defaults for the chat provider.
func NewChatOptions() *ProviderOptions {
	opts := NewProviderOptions()
	opts.Provider = "openai"
	opts.BaseURL = "https://api.openai.com/v1"
	opts.Model = "gpt-5"
	opts.APIKeyEnv = "OPENAI_API_KEY"
	return opts
}

// ToConfigMap converts the options into the map consumed by provider factories.
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":     o.BaseURL,
		"api_key":      o.APIKey,
		"embed_model":  o.Model,
		"chat_model":   o.Model,
		"timeout":      o.Timeout,
		"max_retries":  o.MaxRetries,
		"organization": o.Organization,
	}
}

// AddFlags adds flags for LLM provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Provider, options.Join(prefixes...)+"llm.provider", o.Provider, "LLM provider (huggingface, openai).")
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"llm.base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.APIKey, options.Join(prefixes...)+"llm.api-key", o.APIKey, "LLM API key (DEPRECATED: use the api-key-env variable instead).")
	fs.StringVar(&o.APIKeyEnv, options.Join(prefixes...)+"llm.api-key-env", o.APIKeyEnv, "Environment variable holding the LLM API key.")
	fs.StringVar(&o.Model, options.Join(prefixes...)+"llm.model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"llm.timeout", o.Timeout, "LLM request timeout.")
	fs.IntVar(&o.MaxRetries, options.Join(prefixes...)+"llm.max-retries", o.MaxRetries, "LLM maximum number of retries.")
	fs.StringVar(&o.Organization, options.Join(prefixes...)+"llm.organization", o.Organization, "LLM organization ID (optional).")
}

// Validate validates the LLM provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("provider is required"))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("model is required"))
	}
	if o.APIKey == "" {
		if o.APIKeyEnv == "" {
			errs = append(errs, fmt.Errorf("api-key is required for provider %s", o.Provider))
		} else {
			errs = append(errs, fmt.Errorf("missing required environment variable: %s", o.APIKeyEnv))
		}
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	return errs
}

// Complete completes the LLM provider options with defaults.
// The API key falls back to the configured environment variable.
func (o *ProviderOptions) Complete() error {
	if o.APIKey == "" && o.APIKeyEnv != "" {
		o.APIKey = os.Getenv(o.APIKeyEnv)
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	return nil
}
