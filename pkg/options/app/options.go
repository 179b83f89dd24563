// Package app defines the options contract between the application
// bootstrap and command-line option structs.
package app

import (
	cliflag "github.com/gireesh-ai/portfolio/pkg/app/cliflag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// Flags returns flags grouped by section.
	Flags() cliflag.NamedFlagSets

	// Complete fills in any fields not set that are required to have valid data.
	Complete() error

	// Validate validates all the required options.
	Validate() error
}
