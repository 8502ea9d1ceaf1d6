// Package providers abstracts the external ML collaborators (the model
// under test and the speech synthesis engine) behind capability interfaces
// so the pipeline can run against any serving backend, including the
// deterministic mocks used in tests.
package providers

import (
	"context"
	"fmt"
)

// Request is a single model-under-test invocation. Audio, when set, carries
// the spoken form of the prompt as encoded bytes.
type Request struct {
	Prompt      string
	System      string
	Audio       []byte
	AudioFormat string
}

// Response is the model output for one request.
type Response struct {
	Text string
	Raw  string
}

// ModelProvider is the model-serving collaborator.
type ModelProvider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Audio is synthesized speech returned by a TTS provider.
type Audio struct {
	Data        []byte
	Format      string
	SampleRate  int
	DurationSec float64
}

// TTSProvider is the audio-synthesis collaborator.
type TTSProvider interface {
	Name() string
	Synthesize(ctx context.Context, text, voice string) (*Audio, error)
}

// ProviderError wraps any failure of an external model or synthesis call:
// network errors, timeouts, malformed responses. Callers treat it as a
// per-record failure, never a run abort.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failed (status=%d): %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
