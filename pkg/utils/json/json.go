// Package json wraps JSON serialization behind package-level function
// variables. Sonic is used on amd64/arm64 and encoding/json everywhere
// else, so callers never need to care which implementation is active.
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// NewEncoder creates a JSON encoder for the writer.
	NewEncoder func(w io.Writer) Encoder

	// NewDecoder creates a JSON decoder for the reader.
	NewDecoder func(r io.Reader) Decoder

	usingSonic bool
)

// Encoder is a JSON encoder interface.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is a JSON decoder interface.
type Decoder interface {
	Decode(v interface{}) error
}

func init() {
	// sonic only supports amd64 and arm64
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		useSonicAPI(sonic.ConfigDefault)
		usingSonic = true
		return
	}

	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	NewEncoder = func(w io.Writer) Encoder { return stdjson.NewEncoder(w) }
	NewDecoder = func(r io.Reader) Decoder { return stdjson.NewDecoder(r) }
}

func useSonicAPI(api sonic.API) {
	Marshal = api.Marshal
	Unmarshal = api.Unmarshal
	NewEncoder = func(w io.Writer) Encoder { return api.NewEncoder(w) }
	NewDecoder = func(r io.Reader) Decoder { return api.NewDecoder(r) }
}

// ConfigFastestMode switches to sonic's fastest mode, which skips some
// safety checks. Only use on trusted input. No-op on the standard
// library fallback.
func ConfigFastestMode() {
	if usingSonic {
		useSonicAPI(sonic.ConfigFastest)
	}
}

// ConfigStandardMode switches back to sonic's default mode. No-op on
// the standard library fallback.
func ConfigStandardMode() {
	if usingSonic {
		useSonicAPI(sonic.ConfigDefault)
	}
}

// IsUsingSonic reports whether sonic is the active implementation.
func IsUsingSonic() bool {
	return usingSonic
}
