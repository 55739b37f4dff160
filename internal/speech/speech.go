// Package speech provides Synthesizer implementations for sentence playback.
package speech

import (
	"context"
	"errors"
)

// Speech providers.
const (
	ProviderNone    = "none"
	ProviderHTTP    = "http"
	ProviderCommand = "command"
)

var (
	// ErrUnavailable is returned when no synthesizer is configured.
	ErrUnavailable = errors.New("speech synthesis is not available")
	// ErrTextEmpty is returned for empty sentences.
	ErrTextEmpty = errors.New("text cannot be empty")
)

// Noop is the synthesizer used when playback has no backing service.
type Noop struct{}

// Synthesize always reports ErrUnavailable.
func (Noop) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return nil, ErrUnavailable
}
