package synthesis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/providers"
)

func testDataset(t *testing.T, count int) *dataset.Dataset {
	t.Helper()
	gen := dataset.NewGenerator(zap.NewNop())
	ds, err := gen.Generate(count, 21, nil)
	require.NoError(t, err)
	return ds
}

func TestSynthesize_AllRecords(t *testing.T) {
	ds := testDataset(t, 20)
	dir := t.TempDir()

	synth := New(&providers.MockTTS{}, Config{OutputDir: dir, Workers: 4}, zap.NewNop())
	out, stats, err := synth.Synthesize(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Skipped)
	require.Len(t, out.Records, 20)

	for _, rec := range out.Records {
		require.True(t, rec.HasAudio(), "record %s lacks audio", rec.ID)
		assert.Equal(t, filepath.Join(dir, rec.ID+".wav"), rec.Audio.Path)
		info, err := os.Stat(rec.Audio.Path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(44))
	}

	// The source dataset stays untouched.
	for _, rec := range ds.Records {
		assert.False(t, rec.HasAudio())
	}
}

func TestSynthesize_FailureIsolation(t *testing.T) {
	ds := testDataset(t, 20)
	// Fail exactly one record; every other one must still get audio.
	target := ds.Records[7].TextForTTS

	synth := New(&providers.MockTTS{FailSubstring: target}, Config{OutputDir: t.TempDir()}, zap.NewNop())
	out, stats, err := synth.Synthesize(context.Background(), ds)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stats.Failed, 1)
	assert.Equal(t, 20, stats.Succeeded+stats.Failed)

	failed := 0
	for i, rec := range out.Records {
		if rec.TextForTTS == target {
			assert.False(t, rec.HasAudio())
			assert.False(t, rec.AudioSynthesized)
			failed++
			continue
		}
		assert.True(t, rec.HasAudio(), "record %d should have audio", i)
	}
	assert.Equal(t, stats.Failed, failed)
}

func TestSynthesize_SkipsExistingAudio(t *testing.T) {
	ds := testDataset(t, 10)
	ds.Records[0].Audio = &dataset.AudioRef{Path: "already.wav"}
	ds.Records[0].AudioSynthesized = true

	synth := New(&providers.MockTTS{}, Config{OutputDir: t.TempDir()}, zap.NewNop())
	out, stats, err := synth.Synthesize(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 9, stats.Succeeded)
	assert.Equal(t, "already.wav", out.Records[0].Audio.Path)
}

func TestSynthesize_CancelledContext(t *testing.T) {
	ds := testDataset(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synth := New(&providers.MockTTS{}, Config{OutputDir: t.TempDir()}, zap.NewNop())
	out, stats, err := synth.Synthesize(ctx, ds)
	require.NoError(t, err)

	// Nothing was synthesized, but every record is still present and marked.
	require.Len(t, out.Records, 5)
	assert.Equal(t, 5, stats.Failed)
	for _, rec := range out.Records {
		assert.False(t, rec.AudioSynthesized)
	}
}
