package providers

import (
	"context"
	"errors"
	"strings"
)

// MockModel is a deterministic stand-in for the model under test. By default
// it answers every prompt with a fixed reply; Reply overrides that per
// request. It never touches the network, so evaluation runs built on it are
// fully reproducible.
type MockModel struct {
	// FixedReply is returned when Reply is nil.
	FixedReply string
	// Reply, when set, computes the response per request.
	Reply func(req Request) (string, error)
}

func (m *MockModel) Name() string { return "mock" }

func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Provider: m.Name(), Op: "generate", Err: err}
	}
	if m.Reply != nil {
		text, err := m.Reply(req)
		if err != nil {
			return nil, &ProviderError{Provider: m.Name(), Op: "generate", Err: err}
		}
		return &Response{Text: text, Raw: text}, nil
	}
	reply := m.FixedReply
	if reply == "" {
		reply = `{"tool": "no_tool_available", "params": {}}`
	}
	return &Response{Text: reply, Raw: reply}, nil
}

// MockTTS synthesizes silence: a valid 16 kHz WAV whose duration scales with
// the text length. FailSubstring forces a provider error for matching texts,
// which tests use to verify per-record failure isolation.
type MockTTS struct {
	FailSubstring string
	SampleRate    int
}

func (m *MockTTS) Name() string { return "mock" }

func (m *MockTTS) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Provider: m.Name(), Op: "synthesize", Err: err}
	}
	if m.FailSubstring != "" && strings.Contains(text, m.FailSubstring) {
		return nil, &ProviderError{
			Provider: m.Name(),
			Op:       "synthesize",
			Err:      errors.New("simulated synthesis failure"),
		}
	}

	rate := m.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	// 50 ms of silence per character, at least half a second.
	samples := len([]rune(text)) * rate / 20
	if samples < rate/2 {
		samples = rate / 2
	}
	data := EncodeWAV(make([]int16, samples), rate)
	return &Audio{
		Data:        data,
		Format:      "wav",
		SampleRate:  rate,
		DurationSec: WAVDuration(data, rate),
	}, nil
}
