// Package analysis aggregates raw score records into per-modality summaries,
// quantifies the text/audio modality gap and renders the final report.
package analysis

import (
	"math"

	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/evaluation"
	"github.com/petrov1c/voiceval/internal/metrics"
)

// DefaultUnreliableThreshold marks a summary unreliable when more than half
// of the batch failed: a mean over the surviving minority would be
// misleading.
const DefaultUnreliableThreshold = 0.5

// DefaultWeights combine per-metric gaps into the overall gap score. Tool
// selection is the primary capability under test, so it carries half the
// weight.
var DefaultWeights = map[string]float64{
	evaluation.MetricToolAccuracy:      0.5,
	evaluation.MetricLexicalSimilarity: 0.25,
	evaluation.MetricTokenF1:           0.25,
}

// Config fixes the aggregation policy for a run. Values are explicit so two
// analysis runs over the same records always agree.
type Config struct {
	UnreliableThreshold float64
	Weights             map[string]float64
}

// Analyzer derives summaries and gaps from score batches.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

// New creates an Analyzer, filling defaults for unset policy values.
func New(cfg Config, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UnreliableThreshold <= 0 {
		cfg.UnreliableThreshold = DefaultUnreliableThreshold
	}
	if len(cfg.Weights) == 0 {
		cfg.Weights = DefaultWeights
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "result_analyzer")),
	}
}

// MetricStats is the aggregate of one metric over the non-failed records
// that carry it.
type MetricStats struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// MetricSummary is the derived per-modality aggregate. It is recomputed from
// score records on every analysis run, never treated as a source of truth.
type MetricSummary struct {
	Modality     evaluation.Modality            `json:"modality"`
	ItemCount    int                            `json:"item_count"`
	FailureCount int                            `json:"failure_count"`
	FailureRate  float64                        `json:"failure_rate"`
	Unreliable   bool                           `json:"unreliable"`
	Accuracy     float64                        `json:"accuracy"`
	ParsableRate float64                        `json:"parsable_rate"`
	Metrics      map[string]MetricStats         `json:"metrics"`
	Tools        map[string]metrics.ToolMetrics `json:"tools"`
}

// Summarize aggregates one score batch. Failed records are excluded from the
// numeric means but counted in FailureCount; a failure rate strictly above
// the configured threshold marks the summary unreliable.
func (a *Analyzer) Summarize(batch *evaluation.ScoreBatch) *MetricSummary {
	sum := &MetricSummary{
		Modality:  batch.Modality,
		ItemCount: len(batch.Records),
		Metrics:   make(map[string]MetricStats),
	}

	var outcomes []metrics.Outcome
	acc := make(map[string]*accumulator)
	for _, rec := range batch.Records {
		if rec.Failed {
			sum.FailureCount++
			continue
		}
		outcomes = append(outcomes, metrics.Outcome{
			Expected:  rec.ExpectedTool,
			Predicted: rec.PredictedTool,
			Parsable:  rec.Parsable,
		})
		for name, val := range rec.Metrics {
			st, ok := acc[name]
			if !ok {
				st = &accumulator{min: math.Inf(1), max: math.Inf(-1)}
				acc[name] = st
			}
			st.add(val)
		}
	}

	for name, st := range acc {
		sum.Metrics[name] = st.stats()
	}
	sum.Tools = metrics.PerTool(outcomes)
	sum.Accuracy = metrics.Accuracy(outcomes)
	sum.ParsableRate = metrics.ParsableRate(outcomes)

	if sum.ItemCount > 0 {
		sum.FailureRate = float64(sum.FailureCount) / float64(sum.ItemCount)
	}
	sum.Unreliable = sum.FailureRate > a.cfg.UnreliableThreshold

	a.logger.Info("batch summarized",
		zap.String("modality", string(batch.Modality)),
		zap.Int("items", sum.ItemCount),
		zap.Int("failures", sum.FailureCount),
		zap.Bool("unreliable", sum.Unreliable))
	return sum
}

type accumulator struct {
	total float64
	min   float64
	max   float64
	n     int
}

func (a *accumulator) add(v float64) {
	a.total += v
	a.n++
	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
}

func (a *accumulator) stats() MetricStats {
	if a.n == 0 {
		return MetricStats{}
	}
	return MetricStats{
		Mean:  a.total / float64(a.n),
		Min:   a.min,
		Max:   a.max,
		Count: a.n,
	}
}
