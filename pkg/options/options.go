// Package options defines the generic options interface shared by all
// configuration blocks.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Join concatenates prefixes with "." and appends a trailing "." when the
// result is non-empty, producing flag names like "postgres.host" or
// "server.postgres.host".
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// IOptions is implemented by every options block so the application framework
// can validate and register them uniformly.
type IOptions interface {
	// Validate checks the options and may fill in derived values.
	Validate() []error

	// AddFlags registers the block's flags on the given flagset.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}
