package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const schemaVersion = 1

// AudioRef points at a synthesized audio artifact for a record.
type AudioRef struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"duration_sec,omitempty"`
	SampleRate  int     `json:"sample_rate,omitempty"`
}

// Metadata carries generation provenance for a record.
type Metadata struct {
	TemplateID string `json:"template_id"`
	Complexity string `json:"complexity"`
	Language   string `json:"language"`
	Category   string `json:"category"`
}

// Record is a single labeled evaluation sample: the user prompt, a TTS-ready
// variant of it, and the expected tool invocation it should resolve to.
type Record struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	TextForTTS       string            `json:"text_for_tts"`
	Tool             string            `json:"tool"`
	Params           map[string]string `json:"params"`
	Audio            *AudioRef         `json:"audio,omitempty"`
	AudioSynthesized bool              `json:"audio_synthesized"`
	Metadata         Metadata          `json:"metadata"`
}

// HasAudio reports whether the record carries a usable audio handle.
func (r *Record) HasAudio() bool {
	return r.AudioSynthesized && r.Audio != nil && r.Audio.Path != ""
}

// Dataset is an ordered, immutable batch of records plus the parameters that
// produced it. Augmentation stages copy it instead of mutating in place.
type Dataset struct {
	SchemaVersion  int       `json:"schema_version"`
	Seed           int64     `json:"seed"`
	RequestedCount int       `json:"requested_count"`
	Partial        bool      `json:"partial"`
	CreatedAt      time.Time `json:"created_at"`
	Records        []Record  `json:"records"`
}

// Clone returns a deep copy with its own record slice, so augmentation never
// touches the source dataset.
func (d *Dataset) Clone() *Dataset {
	out := *d
	out.Records = make([]Record, len(d.Records))
	copy(out.Records, d.Records)
	for i := range out.Records {
		if a := out.Records[i].Audio; a != nil {
			ref := *a
			out.Records[i].Audio = &ref
		}
	}
	return &out
}

// Validate checks the dataset invariants: unique non-empty ids, non-empty
// reference text and tool, and that a non-partial dataset holds exactly the
// requested number of records.
func (d *Dataset) Validate() error {
	seen := make(map[string]struct{}, len(d.Records))
	for i, rec := range d.Records {
		if rec.ID == "" {
			return fmt.Errorf("record %d has an empty id", i)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("duplicate record id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if strings.TrimSpace(rec.Text) == "" {
			return fmt.Errorf("record %q has empty reference text", rec.ID)
		}
		if rec.Tool == "" {
			return fmt.Errorf("record %q has no expected tool", rec.ID)
		}
	}
	if !d.Partial && len(d.Records) != d.RequestedCount {
		return fmt.Errorf("dataset holds %d records but %d were requested and it is not flagged partial",
			len(d.Records), d.RequestedCount)
	}
	return nil
}

// ContentJSON renders the record array alone, without the creation timestamp.
// Two datasets generated from the same (count, seed, categories) must produce
// identical ContentJSON.
func (d *Dataset) ContentJSON() ([]byte, error) {
	return json.MarshalIndent(d.Records, "", "  ")
}

// ArtifactName derives the dataset filename from its generation parameters.
func ArtifactName(count int, seed int64) string {
	return fmt.Sprintf("dataset_seed%d_n%d.json", seed, count)
}

// AugmentedName derives the audio-augmented variant name from the source path.
func AugmentedName(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join(dir, stem+"_with_audio.json")
}

// Save writes the dataset artifact. The parent directory is created if needed.
func (d *Dataset) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a dataset artifact.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %s is invalid: %w", path, err)
	}
	return &d, nil
}
