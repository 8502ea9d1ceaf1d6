// Package synthesis augments a dataset with synthesized speech for every
// record, producing a new dataset variant instead of mutating the input.
package synthesis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/providers"
)

// Voices rotated across records so the audio set is not single-speaker.
var speakers = []string{"Aiden", "Serena", "Ryan"}

// Config controls where audio lands and how many provider calls run at once.
type Config struct {
	OutputDir string
	Workers   int
}

// Stats reports the outcome of a synthesis run.
type Stats struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Synthesizer drives the TTS provider over a dataset.
type Synthesizer struct {
	tts    providers.TTSProvider
	cfg    Config
	logger *zap.Logger
}

// New creates a Synthesizer. A nil logger is replaced with a no-op.
func New(tts providers.TTSProvider, cfg Config, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Synthesizer{
		tts:    tts,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "audio_synthesizer")),
	}
}

// Synthesize produces a new dataset in which every record that lacked audio
// carries either an audio handle or an explicit audio_unavailable marker.
// Records are processed independently: one provider failure never blocks the
// rest, and cancellation stops scheduling new records while keeping already
// written audio valid.
func (s *Synthesizer) Synthesize(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, Stats, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return nil, Stats{}, fmt.Errorf("failed to create audio directory: %w", err)
	}

	out := ds.Clone()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range out.Records {
		idx := i
		if out.Records[idx].HasAudio() {
			continue
		}
		g.Go(func() error {
			// Each worker owns exactly one record index, so no
			// shared mutable state is involved.
			s.synthesizeRecord(gctx, &out.Records[idx], idx)
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	var stats Stats
	for i := range out.Records {
		switch {
		case ds.Records[i].HasAudio():
			stats.Skipped++
		case out.Records[i].HasAudio():
			stats.Succeeded++
		default:
			stats.Failed++
		}
	}

	s.logger.Info("synthesis finished",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("total", len(out.Records)))
	return out, stats, nil
}

func (s *Synthesizer) synthesizeRecord(ctx context.Context, rec *dataset.Record, idx int) {
	if ctx.Err() != nil {
		rec.Audio = nil
		rec.AudioSynthesized = false
		return
	}

	voice := speakers[idx%len(speakers)]
	audio, err := s.tts.Synthesize(ctx, rec.TextForTTS, voice)
	if err != nil {
		s.logger.Warn("synthesis failed, marking record audio_unavailable",
			zap.String("record_id", rec.ID),
			zap.Error(err))
		rec.Audio = nil
		rec.AudioSynthesized = false
		return
	}

	path := filepath.Join(s.cfg.OutputDir, rec.ID+".wav")
	if err := os.WriteFile(path, audio.Data, 0o644); err != nil {
		s.logger.Warn("failed to write audio file",
			zap.String("record_id", rec.ID),
			zap.String("path", path),
			zap.Error(err))
		rec.Audio = nil
		rec.AudioSynthesized = false
		return
	}

	rec.Audio = &dataset.AudioRef{
		Path:        path,
		DurationSec: audio.DurationSec,
		SampleRate:  audio.SampleRate,
	}
	rec.AudioSynthesized = true
}
