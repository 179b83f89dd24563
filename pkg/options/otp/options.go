// Package otp provides options for the one-time passcode flow.
package otp

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/gireesh-ai/portfolio/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Supported backing stores.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Options configures OTP issuance and verification.
type Options struct {
	// Store is the backing store for issued codes (postgres, redis).
	Store string `json:"store" mapstructure:"store"`

	// TTL is how long an issued code stays valid.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix prefixes Redis keys when the redis store is selected.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// NewOptions creates default OTP options.
func NewOptions() *Options {
	return &Options{
		Store:     StorePostgres,
		TTL:       5 * time.Minute,
		KeyPrefix: "portfolio:otp:",
	}
}

// AddFlags adds flags for OTP options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Store, options.Join(prefixes...)+"otp.store", o.Store, "OTP backing store (postgres, redis).")
	fs.DurationVar(&o.TTL, options.Join(prefixes...)+"otp.ttl", o.TTL, "OTP code lifetime.")
	fs.StringVar(&o.KeyPrefix, options.Join(prefixes...)+"otp.key-prefix", o.KeyPrefix, "Redis key prefix for stored codes.")
}

// Validate validates the OTP options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Store != StorePostgres && o.Store != StoreRedis {
		errs = append(errs, fmt.Errorf("unknown otp store: %s", o.Store))
	}
	if o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("otp ttl must be positive"))
	}
	return errs
}

// Complete completes the OTP options with defaults.
func (o *Options) Complete() error {
	return nil
}
