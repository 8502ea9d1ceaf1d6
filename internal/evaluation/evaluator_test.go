package evaluation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/providers"
	"github.com/petrov1c/voiceval/internal/synthesis"
)

func testDataset(t *testing.T, count int) *dataset.Dataset {
	t.Helper()
	gen := dataset.NewGenerator(zap.NewNop())
	ds, err := gen.Generate(count, 17, nil)
	require.NoError(t, err)
	return ds
}

// perfectModel answers every text request with the reference invocation of
// the record whose prompt matches.
func perfectModel(ds *dataset.Dataset) *providers.MockModel {
	byPrompt := make(map[string]string, len(ds.Records))
	for _, rec := range ds.Records {
		byPrompt[rec.Text] = ReferenceReply(rec)
	}
	return &providers.MockModel{
		Reply: func(req providers.Request) (string, error) {
			if reply, ok := byPrompt[req.Prompt]; ok {
				return reply, nil
			}
			return "", errors.New("unexpected prompt")
		},
	}
}

func TestEvaluate_TextPerfectRun(t *testing.T) {
	// Music is left out: its search_type parameter is drawn independently of
	// the prompt text, so a prompt-keyed stub cannot always reproduce it.
	gen := dataset.NewGenerator(zap.NewNop())
	ds, err := gen.Generate(30, 17, []string{"flights", "calendar", "notes", "no_tool"})
	require.NoError(t, err)
	ev := New(perfectModel(ds), Config{Workers: 4}, zap.NewNop())

	batches, err := ev.Evaluate(context.Background(), ds, ModalityText)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	batch := batches[0]
	assert.Equal(t, ModalityText, batch.Modality)
	assert.NotEmpty(t, batch.RunID)
	require.Len(t, batch.Records, 30)
	assert.Zero(t, batch.FailureCount())

	for i, sr := range batch.Records {
		assert.Equal(t, ds.Records[i].ID, sr.RecordID, "order must follow input")
		assert.True(t, sr.Parsable)
		assert.Equal(t, sr.ExpectedTool, sr.PredictedTool)
		assert.InDelta(t, 1.0, sr.Metrics[MetricToolAccuracy], 1e-9)
		assert.InDelta(t, 1.0, sr.Metrics[MetricLexicalSimilarity], 1e-9)
		assert.InDelta(t, 1.0, sr.Metrics[MetricTokenF1], 1e-9)
	}
}

func TestEvaluate_FailureIsolation(t *testing.T) {
	ds := testDataset(t, 20)
	failID := ds.Records[5].Text

	model := &providers.MockModel{
		Reply: func(req providers.Request) (string, error) {
			if req.Prompt == failID {
				return "", errors.New("simulated provider outage")
			}
			return `{"tool": "no_tool_available", "params": {}}`, nil
		},
	}
	ev := New(model, Config{Workers: 4}, zap.NewNop())

	batches, err := ev.Evaluate(context.Background(), ds, ModalityText)
	require.NoError(t, err)
	batch := batches[0]

	require.Len(t, batch.Records, 20, "failed records still occupy their slot")
	assert.True(t, batch.Records[5].Failed)
	assert.Contains(t, batch.Records[5].FailureReason, "simulated provider outage")
	for i, sr := range batch.Records {
		if ds.Records[i].Text == failID {
			continue
		}
		assert.False(t, sr.Failed, "record %d must be unaffected", i)
	}
}

func TestEvaluate_AudioRequiresAudio(t *testing.T) {
	ds := testDataset(t, 10)

	ev := New(&providers.MockModel{}, Config{Workers: 2}, zap.NewNop())
	batches, err := ev.Evaluate(context.Background(), ds, ModalityAudio)
	require.NoError(t, err)
	batch := batches[0]

	require.Len(t, batch.Records, 10)
	for _, sr := range batch.Records {
		assert.True(t, sr.Failed)
		assert.Equal(t, ReasonMissingModalityInput, sr.FailureReason)
	}
}

func TestEvaluate_AudioModality(t *testing.T) {
	ds := testDataset(t, 10)
	synth := synthesis.New(&providers.MockTTS{}, synthesis.Config{OutputDir: t.TempDir()}, zap.NewNop())
	withAudio, _, err := synth.Synthesize(context.Background(), ds)
	require.NoError(t, err)

	var sawAudio bool
	model := &providers.MockModel{
		Reply: func(req providers.Request) (string, error) {
			if req.Audio == nil {
				return "", errors.New("audio request carried no audio")
			}
			if req.Prompt != "" {
				return "", errors.New("text prompt must be withheld on the audio channel")
			}
			sawAudio = true
			return `{"tool": "no_tool_available", "params": {}}`, nil
		},
	}
	ev := New(model, Config{Workers: 2}, zap.NewNop())

	batches, err := ev.Evaluate(context.Background(), withAudio, ModalityAudio)
	require.NoError(t, err)
	assert.Zero(t, batches[0].FailureCount())
	assert.True(t, sawAudio)
}

func TestEvaluate_BothModalities(t *testing.T) {
	ds := testDataset(t, 8)
	synth := synthesis.New(&providers.MockTTS{}, synthesis.Config{OutputDir: t.TempDir()}, zap.NewNop())
	withAudio, _, err := synth.Synthesize(context.Background(), ds)
	require.NoError(t, err)

	ev := New(&providers.MockModel{}, Config{Workers: 2}, zap.NewNop())
	batches, err := ev.Evaluate(context.Background(), withAudio, ModalityBoth)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, ModalityText, batches[0].Modality)
	assert.Equal(t, ModalityAudio, batches[1].Modality)
	assert.Len(t, batches[0].Records, 8)
	assert.Len(t, batches[1].Records, 8)
}

func TestEvaluate_InvalidModality(t *testing.T) {
	ev := New(&providers.MockModel{}, Config{}, zap.NewNop())
	_, err := ev.Evaluate(context.Background(), testDataset(t, 2), Modality("video"))
	assert.Error(t, err)
}

func TestParseModality(t *testing.T) {
	for _, valid := range []string{"text", "audio", "both"} {
		m, err := ParseModality(valid)
		require.NoError(t, err)
		assert.Equal(t, Modality(valid), m)
	}
	_, err := ParseModality("video")
	assert.Error(t, err)
}

func TestScoreBatchSaveLoad(t *testing.T) {
	ds := testDataset(t, 5)
	ev := New(&providers.MockModel{}, Config{}, zap.NewNop())
	batches, err := ev.Evaluate(context.Background(), ds, ModalityText)
	require.NoError(t, err)

	batch := batches[0]
	batch.DatasetPath = "data/dataset.json"
	path := filepath.Join(t.TempDir(), BatchName(batch.Modality))
	require.NoError(t, batch.Save(path))

	loaded, err := LoadBatch(path)
	require.NoError(t, err)
	assert.Equal(t, batch.RunID, loaded.RunID)
	assert.Equal(t, batch.DatasetPath, loaded.DatasetPath)
	require.Len(t, loaded.Records, len(batch.Records))
	assert.Equal(t, batch.Records[0].RecordID, loaded.Records[0].RecordID)
}

func TestBatchName(t *testing.T) {
	assert.Equal(t, "text_results.json", BatchName(ModalityText))
	assert.Equal(t, "audio_results.json", BatchName(ModalityAudio))
}
