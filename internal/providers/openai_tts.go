package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// TTSConfig configures the speech synthesis provider. Device selects the
// execution target on backends that expose one (local servers); it is passed
// through verbatim, never interpreted here.
type TTSConfig struct {
	Name       string        `yaml:"name" env:"VOICEVAL_TTS_PROVIDER"`
	APIKey     string        `yaml:"api_key" env:"VOICEVAL_TTS_API_KEY"`
	BaseURL    string        `yaml:"base_url" env:"VOICEVAL_TTS_BASE_URL"`
	Model      string        `yaml:"model" env:"VOICEVAL_TTS_MODEL"`
	Device     string        `yaml:"device" env:"VOICEVAL_TTS_DEVICE"`
	Timeout    time.Duration `yaml:"timeout"`
	SampleRate int           `yaml:"sample_rate"`
}

// OpenAISpeech adapts an OpenAI-compatible speech endpoint to the
// TTSProvider interface.
type OpenAISpeech struct {
	client *openai.Client
	cfg    TTSConfig
	logger *zap.Logger
}

// NewOpenAISpeech builds the speech adapter.
func NewOpenAISpeech(cfg TTSConfig, logger *zap.Logger) *OpenAISpeech {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	reqOpts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if cfg.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Device != "" {
		// Local serving backends select the accelerator from a header;
		// hosted ones ignore it.
		reqOpts = append(reqOpts, option.WithHeader("X-Device", cfg.Device))
	}
	client := openai.NewClient(reqOpts...)
	return &OpenAISpeech{
		client: &client,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "openai_speech")),
	}
}

func (s *OpenAISpeech) Name() string { return "openai" }

// Synthesize renders text to WAV bytes.
func (s *OpenAISpeech) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	if voice == "" {
		voice = "alloy"
	}
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.cfg.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{
				Provider:   s.Name(),
				Op:         "speech",
				StatusCode: apiErr.StatusCode,
				Err:        err,
			}
		}
		return nil, &ProviderError{Provider: s.Name(), Op: "speech", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Op: "speech_read", Err: err}
	}
	if len(data) == 0 {
		return nil, &ProviderError{
			Provider: s.Name(),
			Op:       "speech",
			Err:      errors.New("provider returned empty audio"),
		}
	}

	rate := s.cfg.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Audio{
		Data:        data,
		Format:      "wav",
		SampleRate:  rate,
		DurationSec: WAVDuration(data, rate),
	}, nil
}
