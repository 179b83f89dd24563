// Package options contains flags and options for the portfolio server.
package options

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	portfolio "github.com/gireesh-ai/portfolio/internal/portfolio"
	cliflag "github.com/gireesh-ai/portfolio/pkg/app/cliflag"
	cacheopts "github.com/gireesh-ai/portfolio/pkg/options/cache"
	httpopts "github.com/gireesh-ai/portfolio/pkg/options/http"
	llmopts "github.com/gireesh-ai/portfolio/pkg/options/llm"
	logopts "github.com/gireesh-ai/portfolio/pkg/options/logger"
	mailopts "github.com/gireesh-ai/portfolio/pkg/options/mail"
	otpopts "github.com/gireesh-ai/portfolio/pkg/options/otp"
	pgopts "github.com/gireesh-ai/portfolio/pkg/options/postgres"
	pipelineopts "github.com/gireesh-ai/portfolio/pkg/options/pipeline"
	sessionopts "github.com/gireesh-ai/portfolio/pkg/options/session"
	vectoropts "github.com/gireesh-ai/portfolio/pkg/options/vector"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// VectorOptions selects and configures the vector store backend.
	VectorOptions *vectoropts.Options `json:"vector" mapstructure:"vector"`

	// EmbeddingOptions configures the embedding provider.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions configures the answer-endpoint chat provider.
	ChatOptions *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// PipelineOptions configures the ask and chat pipelines.
	PipelineOptions *pipelineopts.Options `json:"pipeline" mapstructure:"pipeline"`

	// OTPOptions configures the verification code flow.
	OTPOptions *otpopts.Options `json:"otp" mapstructure:"otp"`

	// MailOptions configures code delivery.
	MailOptions *mailopts.Options `json:"mail" mapstructure:"mail"`

	// SessionOptions configures the verification cookies.
	SessionOptions *sessionopts.Options `json:"session" mapstructure:"session"`

	// CacheOptions configures the answer cache.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// PostgresOptions configures the relational store.
	PostgresOptions *pgopts.Options `json:"postgres" mapstructure:"postgres"`

	// CORSOrigins lists the allowed cross-origin request origins.
	CORSOrigins []string `json:"cors-origins" mapstructure:"cors-origins"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:      httpopts.NewOptions(),
		LogOptions:       logopts.NewOptions(),
		VectorOptions:    vectoropts.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		ChatOptions:      llmopts.NewChatOptions(),
		PipelineOptions:  pipelineopts.NewOptions(),
		OTPOptions:       otpopts.NewOptions(),
		MailOptions:      mailopts.NewOptions(),
		SessionOptions:   sessionopts.NewOptions(),
		CacheOptions:     cacheopts.NewOptions(),
		PostgresOptions:  pgopts.NewOptions(),
		ShutdownTimeout:  10 * time.Second,
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.VectorOptions.AddFlags(fss.FlagSet("vector"))
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"), "embedding")
	o.ChatOptions.AddFlags(fss.FlagSet("chat"), "chat")
	o.PipelineOptions.AddFlags(fss.FlagSet("pipeline"))
	o.OTPOptions.AddFlags(fss.FlagSet("otp"))
	o.MailOptions.AddFlags(fss.FlagSet("mail"))
	o.SessionOptions.AddFlags(fss.FlagSet("session"))
	o.CacheOptions.AddFlags(fss.FlagSet("cache"))
	o.PostgresOptions.AddFlags(fss.FlagSet("postgres"))

	misc := fss.FlagSet("misc")
	misc.StringSliceVar(&o.CORSOrigins, "cors-origins", o.CORSOrigins, "Allowed CORS origins.")
	misc.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout.")
	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	for _, c := range []interface{ Complete() error }{
		o.HTTPOptions,
		o.LogOptions,
		o.VectorOptions,
		o.EmbeddingOptions,
		o.ChatOptions,
		o.PipelineOptions,
		o.OTPOptions,
		o.MailOptions,
		o.SessionOptions,
		o.CacheOptions,
		o.PostgresOptions,
	} {
		if err := c.Complete(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates all the required options.
func (o *ServerOptions) Validate() error {
	var errs []error

	errs = append(errs, o.HTTPOptions.Validate()...)
	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.VectorOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.ChatOptions.Validate()...)
	errs = append(errs, o.PipelineOptions.Validate()...)
	errs = append(errs, o.OTPOptions.Validate()...)
	errs = append(errs, o.MailOptions.Validate()...)
	errs = append(errs, o.SessionOptions.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)
	errs = append(errs, o.PostgresOptions.Validate()...)

	if o.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown-timeout must be positive"))
	}

	return utilerrors.NewAggregate(errs)
}

// Config builds the runtime configuration from the completed options.
func (o *ServerOptions) Config() (*portfolio.Config, error) {
	return &portfolio.Config{
		HTTPOptions:      o.HTTPOptions,
		LogOptions:       o.LogOptions,
		VectorOptions:    o.VectorOptions,
		EmbeddingOptions: o.EmbeddingOptions,
		ChatOptions:      o.ChatOptions,
		PipelineOptions:  o.PipelineOptions,
		OTPOptions:       o.OTPOptions,
		MailOptions:      o.MailOptions,
		SessionOptions:   o.SessionOptions,
		CacheOptions:     o.CacheOptions,
		PostgresOptions:  o.PostgresOptions,
		CORSOrigins:      o.CORSOrigins,
		ShutdownTimeout:  o.ShutdownTimeout,
	}, nil
}
