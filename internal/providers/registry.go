package providers

import (
	"fmt"

	"go.uber.org/zap"
)

// NewModelProvider selects a ModelProvider by configured name. Unknown names
// are a configuration error: silently falling back to a mock would let a
// misconfigured run masquerade as a real evaluation.
func NewModelProvider(cfg ModelConfig, logger *zap.Logger) (ModelProvider, error) {
	switch cfg.Name {
	case "openai", "":
		if cfg.Model == "" {
			return nil, fmt.Errorf("model provider %q requires a model name", "openai")
		}
		return NewOpenAIModel(cfg, logger), nil
	case "mock":
		return &MockModel{}, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Name)
	}
}

// NewTTSProvider selects a TTSProvider by configured name.
func NewTTSProvider(cfg TTSConfig, logger *zap.Logger) (TTSProvider, error) {
	switch cfg.Name {
	case "openai", "":
		if cfg.Model == "" {
			return nil, fmt.Errorf("tts provider %q requires a model name", "openai")
		}
		return NewOpenAISpeech(cfg, logger), nil
	case "mock":
		return &MockTTS{SampleRate: cfg.SampleRate}, nil
	default:
		return nil, fmt.Errorf("unknown tts provider %q", cfg.Name)
	}
}
