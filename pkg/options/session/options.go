// Package session provides options for the verification cookies.
package session

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options configures the verified-session cookies.
type Options struct {
	// TTL is the cookie lifetime.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// Domain restricts the cookies to a domain; empty means host-only.
	Domain string `json:"domain" mapstructure:"domain"`

	// Secure marks the cookies Secure. Enable in production.
	Secure bool `json:"secure" mapstructure:"secure"`
}

// NewOptions creates default session options.
func NewOptions() *Options {
	return &Options{
		TTL: time.Hour,
	}
}

// AddFlags adds flags for session options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.TTL, options.Join(prefixes...)+"session.ttl", o.TTL, "Verification cookie lifetime.")
	fs.StringVar(&o.Domain, options.Join(prefixes...)+"session.domain", o.Domain, "Cookie domain (empty for host-only).")
	fs.BoolVar(&o.Secure, options.Join(prefixes...)+"session.secure", o.Secure, "Mark cookies Secure (enable in production).")
}

// Validate validates the session options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session ttl must be positive"))
	}
	return errs
}

// Complete completes the session options with defaults.
func (o *Options) Complete() error {
	return nil
}
