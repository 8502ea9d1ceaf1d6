package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Modality selects which input channel the model is evaluated on.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityBoth  Modality = "both"
)

// ParseModality validates a user-supplied modality string.
func ParseModality(s string) (Modality, error) {
	switch Modality(s) {
	case ModalityText, ModalityAudio, ModalityBoth:
		return Modality(s), nil
	}
	return "", fmt.Errorf("invalid modality %q (valid: text, audio, both)", s)
}

// Metric names emitted per score record.
const (
	MetricToolAccuracy      = "tool_accuracy"
	MetricLexicalSimilarity = "lexical_similarity"
	MetricTokenF1           = "token_f1"
)

// MetricNames in a fixed reporting order.
var MetricNames = []string{MetricToolAccuracy, MetricLexicalSimilarity, MetricTokenF1}

// ScoreRecord is the evaluation outcome for one (record, modality) pair.
// Failure is a first-class value: a failed record still occupies its slot in
// the batch, so batch cardinality always reconciles with the input dataset.
type ScoreRecord struct {
	RecordID       string             `json:"id"`
	Modality       Modality           `json:"modality"`
	ExpectedTool   string             `json:"expected_tool"`
	PredictedTool  string             `json:"predicted_tool,omitempty"`
	Parsable       bool               `json:"parsable"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
	MetricFailures map[string]string  `json:"metric_failures,omitempty"`
	Failed         bool               `json:"failed"`
	FailureReason  string             `json:"failure_reason,omitempty"`
}

// ScoreBatch is the persisted artifact of one evaluation run over one
// modality.
type ScoreBatch struct {
	RunID       string        `json:"run_id"`
	DatasetPath string        `json:"dataset_path"`
	Modality    Modality      `json:"modality"`
	CreatedAt   time.Time     `json:"created_at"`
	Records     []ScoreRecord `json:"records"`
}

// FailureCount reports how many records in the batch failed.
func (b *ScoreBatch) FailureCount() int {
	n := 0
	for _, r := range b.Records {
		if r.Failed {
			n++
		}
	}
	return n
}

// Save writes the batch artifact, creating the parent directory if needed.
func (b *ScoreBatch) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal score batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write score batch %s: %w", path, err)
	}
	return nil
}

// LoadBatch reads a persisted score batch.
func LoadBatch(path string) (*ScoreBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read score batch %s: %w", path, err)
	}
	var b ScoreBatch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse score batch %s: %w", path, err)
	}
	return &b, nil
}

// BatchName derives the results filename for a modality, mirroring
// text_results.json / audio_results.json.
func BatchName(m Modality) string {
	return string(m) + "_results.json"
}
