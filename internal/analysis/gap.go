package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/evaluation"
)

// MetricGap compares one metric across modalities. AbsDelta is the audio
// aggregate minus the text aggregate; RelGapPct is the relative degradation
// ((text − audio) / text · 100), positive when audio is worse.
type MetricGap struct {
	Text      float64 `json:"text"`
	Audio     float64 `json:"audio"`
	AbsDelta  float64 `json:"abs_delta"`
	RelGapPct float64 `json:"rel_gap_pct"`
}

// Agreement pairs text and audio answers record by record.
type Agreement struct {
	// ToolAgreementRate is the share of paired records where both
	// modalities predicted the same tool, right or wrong.
	ToolAgreementRate float64 `json:"tool_agreement_rate"`
	// DegradationRate is the share where text was correct but audio was
	// not.
	DegradationRate float64 `json:"degradation_rate"`
	PairedRecords   int     `json:"paired_records"`
}

// ModalityGap is the cross-modality comparison artifact.
type ModalityGap struct {
	PerMetric map[string]MetricGap `json:"per_metric"`
	Agreement *Agreement           `json:"agreement,omitempty"`
	// OverallScore is the weighted mean of per-metric relative gaps, in
	// percent. Positive means audio underperforms text.
	OverallScore float64            `json:"overall_score"`
	Weights      map[string]float64 `json:"weights"`
	Unreliable   bool               `json:"unreliable"`
}

// Gap derives the modality gap from a text and an audio summary. The gap is
// marked unreliable when either input summary is.
func (a *Analyzer) Gap(text, audio *MetricSummary) (*ModalityGap, error) {
	if text.Modality != evaluation.ModalityText || audio.Modality != evaluation.ModalityAudio {
		return nil, fmt.Errorf("gap requires a text and an audio summary, got %q and %q",
			text.Modality, audio.Modality)
	}

	gap := &ModalityGap{
		PerMetric:  make(map[string]MetricGap),
		Weights:    a.cfg.Weights,
		Unreliable: text.Unreliable || audio.Unreliable,
	}

	weightTotal := 0.0
	weighted := 0.0
	for _, name := range evaluation.MetricNames {
		t, tok := text.Metrics[name]
		au, aok := audio.Metrics[name]
		if !tok || !aok {
			continue
		}
		mg := MetricGap{
			Text:     t.Mean,
			Audio:    au.Mean,
			AbsDelta: au.Mean - t.Mean,
		}
		if t.Mean != 0 {
			mg.RelGapPct = (t.Mean - au.Mean) / t.Mean * 100.0
		}
		gap.PerMetric[name] = mg

		if w := a.cfg.Weights[name]; w > 0 {
			weighted += w * mg.RelGapPct
			weightTotal += w
		}
	}
	if weightTotal > 0 {
		gap.OverallScore = weighted / weightTotal
	}

	a.logger.Info("modality gap computed",
		zap.Float64("overall_score_pct", gap.OverallScore),
		zap.Bool("unreliable", gap.Unreliable))
	return gap, nil
}

// ComputeAgreement pairs the two batches by record id and derives agreement
// and degradation rates. Failed records on either side are skipped.
func (a *Analyzer) ComputeAgreement(textBatch, audioBatch *evaluation.ScoreBatch) Agreement {
	audioByID := make(map[string]evaluation.ScoreRecord, len(audioBatch.Records))
	for _, r := range audioBatch.Records {
		audioByID[r.RecordID] = r
	}

	var agg Agreement
	agreed, degraded := 0, 0
	for _, tr := range textBatch.Records {
		ar, ok := audioByID[tr.RecordID]
		if !ok || tr.Failed || ar.Failed {
			continue
		}
		agg.PairedRecords++
		if tr.PredictedTool == ar.PredictedTool {
			agreed++
		}
		if tr.PredictedTool == tr.ExpectedTool && ar.PredictedTool != ar.ExpectedTool {
			degraded++
		}
	}
	if agg.PairedRecords > 0 {
		agg.ToolAgreementRate = float64(agreed) / float64(agg.PairedRecords)
		agg.DegradationRate = float64(degraded) / float64(agg.PairedRecords)
	}
	return agg
}
