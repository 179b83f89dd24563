// Package mail provides options for transactional email delivery.
package mail

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options configures the mailers. Resend is the primary transport and SMTP
// the fallback; at least one must be configured.
type Options struct {
	// From is the sender address for all outgoing mail.
	From string `json:"from" mapstructure:"from"`

	// ResendAPIKey authenticates against the Resend API. Prefer the
	// RESEND_API_KEY environment variable over the command line.
	ResendAPIKey string `json:"-" mapstructure:"resend-api-key"`

	// SMTPHost is the fallback SMTP server host.
	SMTPHost string `json:"smtp-host" mapstructure:"smtp-host"`

	// SMTPPort is the fallback SMTP server port.
	SMTPPort int `json:"smtp-port" mapstructure:"smtp-port"`

	// SMTPUsername authenticates against the SMTP server.
	SMTPUsername string `json:"smtp-username" mapstructure:"smtp-username"`

	// SMTPPassword authenticates against the SMTP server. Prefer the
	// SMTP_PASSWORD environment variable over the command line.
	SMTPPassword string `json:"-" mapstructure:"smtp-password"`
}

// NewOptions creates default mail options.
func NewOptions() *Options {
	return &Options{
		SMTPPort: 587,
	}
}

// AddFlags adds flags for mail options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.From, options.Join(prefixes...)+"mail.from", o.From, "Sender address for outgoing mail.")
	fs.StringVar(&o.ResendAPIKey, options.Join(prefixes...)+"mail.resend-api-key", o.ResendAPIKey, "Resend API key (DEPRECATED: use RESEND_API_KEY env var instead).")
	fs.StringVar(&o.SMTPHost, options.Join(prefixes...)+"mail.smtp-host", o.SMTPHost, "Fallback SMTP server host.")
	fs.IntVar(&o.SMTPPort, options.Join(prefixes...)+"mail.smtp-port", o.SMTPPort, "Fallback SMTP server port.")
	fs.StringVar(&o.SMTPUsername, options.Join(prefixes...)+"mail.smtp-username", o.SMTPUsername, "SMTP username.")
	fs.StringVar(&o.SMTPPassword, options.Join(prefixes...)+"mail.smtp-password", o.SMTPPassword, "SMTP password (DEPRECATED: use SMTP_PASSWORD env var instead).")
}

// Validate validates the mail options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.From == "" {
		errs = append(errs, fmt.Errorf("mail from address is required"))
	}
	if o.ResendAPIKey == "" && o.SMTPHost == "" {
		errs = append(errs, fmt.Errorf("missing required environment variable: RESEND_API_KEY (or configure SMTP)"))
	}
	return errs
}

// Complete completes the mail options. Secrets fall back to their
// conventional environment variables.
func (o *Options) Complete() error {
	if o.ResendAPIKey == "" {
		o.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	}
	if o.SMTPPassword == "" {
		o.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	}
	return nil
}
