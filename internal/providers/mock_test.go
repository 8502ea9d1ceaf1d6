package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockModel_DefaultReply(t *testing.T) {
	model := &MockModel{}
	resp, err := model.Generate(context.Background(), Request{Prompt: "привет"})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "no_tool_available")
}

func TestMockModel_ReplyFunc(t *testing.T) {
	model := &MockModel{
		Reply: func(req Request) (string, error) {
			if req.Audio != nil {
				return "audio", nil
			}
			return "text", nil
		},
	}

	resp, err := model.Generate(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "text", resp.Text)

	resp, err = model.Generate(context.Background(), Request{Audio: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "audio", resp.Text)
}

func TestMockModel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := &MockModel{}
	_, err := model.Generate(ctx, Request{Prompt: "x"})
	require.Error(t, err)

	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestMockTTS_ProducesWAV(t *testing.T) {
	tts := &MockTTS{}
	audio, err := tts.Synthesize(context.Background(), "Найди рейсы из Москвы в Казань", "Aiden")
	require.NoError(t, err)

	assert.Equal(t, "wav", audio.Format)
	assert.Equal(t, DefaultSampleRate, audio.SampleRate)
	assert.Equal(t, "RIFF", string(audio.Data[:4]))
	assert.Equal(t, "WAVE", string(audio.Data[8:12]))
	assert.GreaterOrEqual(t, audio.DurationSec, 0.5)
}

func TestMockTTS_FailSubstring(t *testing.T) {
	tts := &MockTTS{FailSubstring: "сломай"}

	_, err := tts.Synthesize(context.Background(), "сломай синтез", "Serena")
	require.Error(t, err)

	audio, err := tts.Synthesize(context.Background(), "обычный текст", "Serena")
	require.NoError(t, err)
	assert.NotEmpty(t, audio.Data)
}

func TestWAVRoundTrip(t *testing.T) {
	samples := make([]int16, DefaultSampleRate) // one second
	data := EncodeWAV(samples, DefaultSampleRate)

	assert.Len(t, data, 44+2*len(samples))
	assert.InDelta(t, 1.0, WAVDuration(data, DefaultSampleRate), 1e-9)
	assert.Zero(t, WAVDuration(nil, DefaultSampleRate))
	assert.Zero(t, WAVDuration(data, 0))
}

func TestProviderError(t *testing.T) {
	inner := errors.New("boom")
	err := &ProviderError{Provider: "openai", Op: "chat", StatusCode: 429, Err: inner}
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "429")
	assert.ErrorIs(t, err, inner)
}

func TestNewModelProvider(t *testing.T) {
	_, err := NewModelProvider(ModelConfig{Name: "mock"}, zap.NewNop())
	require.NoError(t, err)

	_, err = NewModelProvider(ModelConfig{Name: "openai"}, zap.NewNop())
	assert.Error(t, err, "openai provider without a model name must fail")

	_, err = NewModelProvider(ModelConfig{Name: "openai", Model: "gpt-4o-audio-preview"}, zap.NewNop())
	require.NoError(t, err)

	_, err = NewModelProvider(ModelConfig{Name: "banana"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewTTSProvider(t *testing.T) {
	tts, err := NewTTSProvider(TTSConfig{Name: "mock", SampleRate: 8000}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "mock", tts.Name())

	_, err = NewTTSProvider(TTSConfig{Name: "banana"}, zap.NewNop())
	assert.Error(t, err)
}
