// Package evaluation runs the model under test over a dataset per modality
// and produces one ScoreRecord per (record, modality) pair, in input order.
package evaluation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/metrics"
	"github.com/petrov1c/voiceval/internal/providers"
)

// Config controls evaluation parallelism and provider call bounds.
type Config struct {
	Workers     int
	CallTimeout time.Duration
}

// Evaluator scores a dataset against the model under test.
type Evaluator struct {
	model  providers.ModelProvider
	cfg    Config
	logger *zap.Logger
}

// New creates an Evaluator. A nil logger is replaced with a no-op.
func New(model providers.ModelProvider, cfg Config, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	return &Evaluator{
		model:  model,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "evaluator")),
	}
}

// scorer computes one named metric for a parsed model answer.
type scorer struct {
	name  string
	score func(refCanon, hypCanon string, toolMatch bool) (float64, error)
}

var scorers = []scorer{
	{MetricToolAccuracy, func(_, _ string, toolMatch bool) (float64, error) {
		if toolMatch {
			return 1.0, nil
		}
		return 0.0, nil
	}},
	{MetricLexicalSimilarity, func(ref, hyp string, _ bool) (float64, error) {
		if ref == "" {
			return 0, fmt.Errorf("empty reference invocation")
		}
		return metrics.LexicalSimilarity(ref, hyp), nil
	}},
	{MetricTokenF1, func(ref, hyp string, _ bool) (float64, error) {
		if ref == "" {
			return 0, fmt.Errorf("empty reference invocation")
		}
		return metrics.TokenF1(ref, hyp), nil
	}},
}

// Evaluate runs the requested modality (or both) over the dataset. Every
// input record yields exactly one ScoreRecord per evaluated modality, in
// input order; per-record provider failures are captured in the records,
// never raised. The only errors returned are pipeline invariant violations.
func (e *Evaluator) Evaluate(ctx context.Context, ds *dataset.Dataset, modality Modality) ([]*ScoreBatch, error) {
	var passes []Modality
	switch modality {
	case ModalityText, ModalityAudio:
		passes = []Modality{modality}
	case ModalityBoth:
		passes = []Modality{ModalityText, ModalityAudio}
	default:
		return nil, fmt.Errorf("invalid modality %q", modality)
	}

	batches := make([]*ScoreBatch, 0, len(passes))
	for _, m := range passes {
		batch, err := e.evaluateModality(ctx, ds, m)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

func (e *Evaluator) evaluateModality(ctx context.Context, ds *dataset.Dataset, m Modality) (*ScoreBatch, error) {
	e.logger.Info("evaluating modality",
		zap.String("modality", string(m)),
		zap.Int("records", len(ds.Records)))

	results := make([]ScoreRecord, len(ds.Records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range ds.Records {
		idx := i
		g.Go(func() error {
			// Results are reassembled by original index, so parallel
			// completion order never leaks into the batch.
			results[idx] = e.evaluateRecord(gctx, ds.Records[idx], m)
			return nil
		})
	}
	_ = g.Wait()

	if len(results) != len(ds.Records) {
		return nil, &ReconciliationError{
			Stage:    "evaluate_" + string(m),
			Expected: len(ds.Records),
			Got:      len(results),
		}
	}
	for i, r := range results {
		if r.RecordID != ds.Records[i].ID {
			return nil, &ReconciliationError{
				Stage:    "evaluate_" + string(m) + "_order",
				Expected: len(ds.Records),
				Got:      i,
			}
		}
	}

	batch := &ScoreBatch{
		RunID:     uuid.NewString(),
		Modality:  m,
		CreatedAt: time.Now().UTC(),
		Records:   results,
	}
	e.logger.Info("modality evaluated",
		zap.String("modality", string(m)),
		zap.String("run_id", batch.RunID),
		zap.Int("failures", batch.FailureCount()))
	return batch, nil
}

func (e *Evaluator) evaluateRecord(ctx context.Context, rec dataset.Record, m Modality) ScoreRecord {
	out := ScoreRecord{
		RecordID:     rec.ID,
		Modality:     m,
		ExpectedTool: rec.Tool,
	}

	if err := ctx.Err(); err != nil {
		out.Failed = true
		out.FailureReason = fmt.Sprintf("run terminated before record: %v", err)
		return out
	}

	req := providers.Request{
		Prompt: rec.Text,
		System: systemPrompt,
	}
	if m == ModalityAudio {
		if !rec.HasAudio() {
			out.Failed = true
			out.FailureReason = ReasonMissingModalityInput
			return out
		}
		audio, err := os.ReadFile(rec.Audio.Path)
		if err != nil {
			out.Failed = true
			out.FailureReason = fmt.Sprintf("failed to read audio %s: %v", rec.Audio.Path, err)
			return out
		}
		// The audio carries the request; the text prompt is withheld so
		// the model is scored on the spoken channel alone.
		req.Prompt = ""
		req.Audio = audio
		req.AudioFormat = "wav"
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()
	resp, err := e.model.Generate(callCtx, req)
	if err != nil {
		e.logger.Debug("provider call failed",
			zap.String("record_id", rec.ID),
			zap.Error(err))
		out.Failed = true
		out.FailureReason = err.Error()
		return out
	}

	inv, parsable := parseInvocation(resp.Text)
	out.Parsable = parsable
	out.PredictedTool = inv.Tool

	refCanon := canonical(rec.Tool, rec.Params)
	hypCanon := canonical(inv.Tool, inv.Params)
	toolMatch := inv.Tool == rec.Tool

	out.Metrics = make(map[string]float64, len(scorers))
	for _, s := range scorers {
		val, err := s.score(refCanon, hypCanon, toolMatch)
		if err != nil {
			if out.MetricFailures == nil {
				out.MetricFailures = make(map[string]string)
			}
			out.MetricFailures[s.name] = err.Error()
			continue
		}
		out.Metrics[s.name] = val
	}
	return out
}
