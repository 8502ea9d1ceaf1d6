package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/evaluation"
)

func TestMetricClass(t *testing.T) {
	assert.Equal(t, "good", metricClass(0.95))
	assert.Equal(t, "good", metricClass(0.9))
	assert.Equal(t, "warning", metricClass(0.89))
	assert.Equal(t, "warning", metricClass(0.7))
	assert.Equal(t, "bad", metricClass(0.69))
	assert.Equal(t, "bad", metricClass(0.0))
}

func TestWriteReport(t *testing.T) {
	a := New(Config{}, zap.NewNop())

	text := summaryWith(evaluation.ModalityText, 0.9, 0.8, 0.8)
	audio := summaryWith(evaluation.ModalityAudio, 0.72, 0.6, 0.6)
	gap, err := a.Gap(text, audio)
	require.NoError(t, err)
	gap.Agreement = &Agreement{ToolAgreementRate: 0.8, DegradationRate: 0.1, PairedRecords: 10}

	dir := t.TempDir()
	require.NoError(t, a.WriteReport([]*MetricSummary{text, audio}, gap, dir))

	for _, name := range []string{"text_metrics.json", "audio_metrics.json", "modality_gap.json", "report.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "missing artifact %s", name)
	}

	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "tool_accuracy")
	assert.Contains(t, string(html), "Modality gap")
	assert.Contains(t, string(html), "22.50%")
}

func TestWriteReport_Reproducible(t *testing.T) {
	a := New(Config{}, zap.NewNop())
	text := summaryWith(evaluation.ModalityText, 0.9, 0.8, 0.8)
	audio := summaryWith(evaluation.ModalityAudio, 0.72, 0.6, 0.6)
	gap, err := a.Gap(text, audio)
	require.NoError(t, err)

	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, a.WriteReport([]*MetricSummary{text, audio}, gap, first))
	require.NoError(t, a.WriteReport([]*MetricSummary{text, audio}, gap, second))

	for _, name := range []string{"report.html", "modality_gap.json", "text_metrics.json"} {
		a1, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b1, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, string(a1), string(b1), "artifact %s must be byte-identical", name)
	}
}

func TestWriteReport_TextOnly(t *testing.T) {
	a := New(Config{}, zap.NewNop())
	text := summaryWith(evaluation.ModalityText, 0.9, 0.8, 0.8)

	dir := t.TempDir()
	require.NoError(t, a.WriteReport([]*MetricSummary{text}, nil, dir))

	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(html), "Modality gap")

	_, err = os.Stat(filepath.Join(dir, "modality_gap.json"))
	assert.True(t, os.IsNotExist(err))
}
