// Package pipeline provides options for the answer and chat pipelines.
package pipeline

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Retrieval modes. Required fails the request when retrieval fails;
// optional degrades to the empty-context state.
const (
	RetrievalRequired = "required"
	RetrievalOptional = "optional"
)

// DefaultSystemPrompt grounds answers in the indexed personal context.
const DefaultSystemPrompt = "You are Gireesh's personal AI. Answer based only on his life data provided in the context. If the answer is not in the context, say you do not have that information."

// Options configures the shared answer/chat pipeline.
type Options struct {
	// TopK is the number of vector matches retrieved per query.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// Temperature for generation.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// SystemPrompt for the one-shot answer endpoint.
	SystemPrompt string `json:"system-prompt" mapstructure:"system-prompt"`

	// PrimaryModel is tried first on the answer endpoint.
	PrimaryModel string `json:"primary-model" mapstructure:"primary-model"`

	// FallbackModel gets exactly one retry with the identical prompt.
	FallbackModel string `json:"fallback-model" mapstructure:"fallback-model"`

	// AskRetrieval is the retrieval mode for the answer endpoint.
	AskRetrieval string `json:"ask-retrieval" mapstructure:"ask-retrieval"`

	// ChatModels are conversational candidates tried in priority order.
	ChatModels []string `json:"chat-models" mapstructure:"chat-models"`

	// ChatModelOverride, when set, is prepended to ChatModels.
	ChatModelOverride string `json:"chat-model-override" mapstructure:"chat-model-override"`

	// ChatLastResortModel is the OpenAI model tried after all ChatModels fail.
	ChatLastResortModel string `json:"chat-last-resort-model" mapstructure:"chat-last-resort-model"`

	// ChatMaxTokens caps generation length on the chat endpoint.
	ChatMaxTokens int `json:"chat-max-tokens" mapstructure:"chat-max-tokens"`

	// ChatRetrieval is the retrieval mode for the chat endpoint.
	ChatRetrieval string `json:"chat-retrieval" mapstructure:"chat-retrieval"`

	// HandlerTimeout bounds one pipeline invocation.
	HandlerTimeout time.Duration `json:"handler-timeout" mapstructure:"handler-timeout"`
}

// NewOptions creates default pipeline options.
func NewOptions() *Options {
	return &Options{
		TopK:         5,
		Temperature:  0.7,
		SystemPrompt: DefaultSystemPrompt,

		PrimaryModel:  "gpt-5",
		FallbackModel: "gpt-4o-mini",
		AskRetrieval:  RetrievalRequired,

		ChatModels: []string{
			"HuggingFaceH4/zephyr-7b-beta",
			"mistralai/Mistral-7B-Instruct-v0.2",
		},
		ChatLastResortModel: "gpt-4o",
		ChatMaxTokens:       512,
		ChatRetrieval:       RetrievalOptional,

		HandlerTimeout: 60 * time.Second,
	}
}

// AddFlags adds flags for pipeline options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"pipeline.top-k", o.TopK, "Number of vector matches retrieved per query.")
	fs.Float64Var(&o.Temperature, options.Join(prefixes...)+"pipeline.temperature", o.Temperature, "Generation temperature.")
	fs.StringVar(&o.SystemPrompt, options.Join(prefixes...)+"pipeline.system-prompt", o.SystemPrompt, "System prompt for the answer endpoint.")
	fs.StringVar(&o.PrimaryModel, options.Join(prefixes...)+"pipeline.primary-model", o.PrimaryModel, "Primary answer model.")
	fs.StringVar(&o.FallbackModel, options.Join(prefixes...)+"pipeline.fallback-model", o.FallbackModel, "Fallback answer model (one retry).")
	fs.StringVar(&o.AskRetrieval, options.Join(prefixes...)+"pipeline.ask-retrieval", o.AskRetrieval, "Retrieval mode for the answer endpoint (required, optional).")
	fs.StringSliceVar(&o.ChatModels, options.Join(prefixes...)+"pipeline.chat-models", o.ChatModels, "Conversational model candidates in priority order.")
	fs.StringVar(&o.ChatModelOverride, options.Join(prefixes...)+"pipeline.chat-model-override", o.ChatModelOverride, "Model prepended to the chat candidates.")
	fs.StringVar(&o.ChatLastResortModel, options.Join(prefixes...)+"pipeline.chat-last-resort-model", o.ChatLastResortModel, "Last-resort OpenAI chat model.")
	fs.IntVar(&o.ChatMaxTokens, options.Join(prefixes...)+"pipeline.chat-max-tokens", o.ChatMaxTokens, "Maximum generated tokens on the chat endpoint.")
	fs.StringVar(&o.ChatRetrieval, options.Join(prefixes...)+"pipeline.chat-retrieval", o.ChatRetrieval, "Retrieval mode for the chat endpoint (required, optional).")
	fs.DurationVar(&o.HandlerTimeout, options.Join(prefixes...)+"pipeline.handler-timeout", o.HandlerTimeout, "Timeout for one pipeline invocation.")
}

// Validate validates the pipeline options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("pipeline top-k must be positive"))
	}
	if o.PrimaryModel == "" {
		errs = append(errs, fmt.Errorf("pipeline primary-model is required"))
	}
	if o.FallbackModel == "" {
		errs = append(errs, fmt.Errorf("pipeline fallback-model is required"))
	}
	for _, mode := range []string{o.AskRetrieval, o.ChatRetrieval} {
		if mode != RetrievalRequired && mode != RetrievalOptional {
			errs = append(errs, fmt.Errorf("unknown retrieval mode: %s", mode))
		}
	}
	if o.HandlerTimeout <= 0 {
		errs = append(errs, fmt.Errorf("pipeline handler-timeout must be positive"))
	}
	return errs
}

// Complete completes the pipeline options with defaults.
func (o *Options) Complete() error {
	if o.ChatModelOverride != "" && (len(o.ChatModels) == 0 || o.ChatModels[0] != o.ChatModelOverride) {
		o.ChatModels = append([]string{o.ChatModelOverride}, o.ChatModels...)
	}
	return nil
}
