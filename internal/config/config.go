// Package config defines the explicit, structured run configuration:
// metric weights, thresholds, category distribution knobs and provider
// endpoints. Nothing here is ambient: every value that affects results is
// in the file or the environment, so runs stay reproducible.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/petrov1c/voiceval/internal/analysis"
	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/objectstore"
	"github.com/petrov1c/voiceval/internal/providers"
)

// GeneratorConfig tunes dataset generation.
type GeneratorConfig struct {
	// Tolerance caps average template reuse before generation fails.
	Tolerance float64 `yaml:"tolerance"`
	// AllowPartial caps oversized categories and flags the dataset
	// partial instead of failing.
	AllowPartial bool `yaml:"allow_partial" env:"VOICEVAL_GENERATOR_ALLOW_PARTIAL"`
}

// SynthesisConfig tunes the audio stage.
type SynthesisConfig struct {
	Workers int `yaml:"workers" env:"VOICEVAL_SYNTHESIS_WORKERS"`
}

// EvaluationConfig tunes the scoring stage.
type EvaluationConfig struct {
	Workers     int           `yaml:"workers" env:"VOICEVAL_EVALUATION_WORKERS"`
	CallTimeout time.Duration `yaml:"call_timeout" env:"VOICEVAL_EVALUATION_CALL_TIMEOUT"`
	// Overwrite lets a re-run replace an existing results artifact
	// instead of refusing.
	Overwrite bool `yaml:"overwrite" env:"VOICEVAL_EVALUATION_OVERWRITE"`
}

// AnalysisConfig fixes the aggregation policy.
type AnalysisConfig struct {
	UnreliableThreshold float64            `yaml:"unreliable_threshold"`
	Weights             map[string]float64 `yaml:"weights"`
}

// Config is the full pipeline configuration.
type Config struct {
	DataDir    string                `yaml:"data_dir" env:"VOICEVAL_DATA_DIR"`
	StorePath  string                `yaml:"store_path" env:"VOICEVAL_STORE_PATH"`
	LogLevel   string                `yaml:"log_level" env:"VOICEVAL_LOG_LEVEL"`
	Generator  GeneratorConfig       `yaml:"generator"`
	Synthesis  SynthesisConfig       `yaml:"synthesis"`
	Evaluation EvaluationConfig      `yaml:"evaluation"`
	Analysis   AnalysisConfig        `yaml:"analysis"`
	Model      providers.ModelConfig `yaml:"model"`
	TTS        providers.TTSConfig   `yaml:"tts"`
	Object     objectstore.Config    `yaml:"object_store"`
}

// Default returns the documented baseline configuration.
func Default() Config {
	return Config{
		DataDir:   "data",
		StorePath: "data/voiceval.db",
		LogLevel:  "info",
		Generator: GeneratorConfig{
			Tolerance: dataset.DefaultTolerance,
		},
		Synthesis: SynthesisConfig{Workers: 4},
		Evaluation: EvaluationConfig{
			Workers:     4,
			CallTimeout: 60 * time.Second,
		},
		Analysis: AnalysisConfig{
			UnreliableThreshold: analysis.DefaultUnreliableThreshold,
			// Copied so YAML overlays never mutate the shared defaults.
			Weights: copyWeights(analysis.DefaultWeights),
		},
		Model: providers.ModelConfig{Name: "mock"},
		TTS:   providers.TTSConfig{Name: "mock", SampleRate: providers.DefaultSampleRate},
	}
}

func copyWeights(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Load builds the effective configuration: defaults, overlaid with the YAML
// file at path (when it exists), overlaid with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would make a run unreproducible or
// meaningless.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Generator.Tolerance <= 0 {
		return fmt.Errorf("generator.tolerance must be positive, got %g", c.Generator.Tolerance)
	}
	if c.Analysis.UnreliableThreshold <= 0 || c.Analysis.UnreliableThreshold > 1 {
		return fmt.Errorf("analysis.unreliable_threshold must be in (0, 1], got %g",
			c.Analysis.UnreliableThreshold)
	}
	total := 0.0
	for name, w := range c.Analysis.Weights {
		if w < 0 {
			return fmt.Errorf("analysis.weights[%s] must not be negative", name)
		}
		total += w
	}
	if len(c.Analysis.Weights) > 0 && total == 0 {
		return fmt.Errorf("analysis.weights must not sum to zero")
	}
	return nil
}
