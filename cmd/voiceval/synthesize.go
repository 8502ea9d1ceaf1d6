package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/datastore"
	"github.com/petrov1c/voiceval/internal/providers"
	"github.com/petrov1c/voiceval/internal/synthesis"
)

func newSynthesizeCmd(a *app) *cobra.Command {
	var (
		input     string
		outputDir string
		device    string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Synthesize speech for every dataset record",
		Long: `Synthesize reads a dataset, renders each record's TTS text to a WAV
file and writes an audio-augmented dataset variant next to the source. Records
whose synthesis fails are kept, marked audio_unavailable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.Load(input)
			if err != nil {
				return err
			}

			ttsCfg := a.cfg.TTS
			if device != "" {
				ttsCfg.Device = device
			}
			tts, err := providers.NewTTSProvider(ttsCfg, a.logger)
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = filepath.Join(a.cfg.DataDir, "audio")
			}
			if workers <= 0 {
				workers = a.cfg.Synthesis.Workers
			}
			synth := synthesis.New(tts, synthesis.Config{
				OutputDir: outputDir,
				Workers:   workers,
			}, a.logger)

			store := a.openStore()
			if store != nil {
				defer store.Close()
			}
			runID := recordRun(store, a.logger, "synthesize", input, "")

			out, stats, err := synth.Synthesize(cmd.Context(), ds)
			if err != nil {
				finishRun(store, a.logger, runID, 0, 0, datastore.StatusFailed)
				return err
			}

			augmented := dataset.AugmentedName(input)
			if err := out.Save(augmented); err != nil {
				finishRun(store, a.logger, runID, len(out.Records), stats.Failed, datastore.StatusFailed)
				return err
			}

			status := datastore.StatusCompleted
			if stats.Succeeded == 0 && stats.Failed > 0 {
				status = datastore.StatusFailed
			}
			finishRun(store, a.logger, runID, len(out.Records), stats.Failed, status)

			a.logger.Info("augmented dataset written",
				zap.String("path", augmented),
				zap.Int("succeeded", stats.Succeeded),
				zap.Int("failed", stats.Failed),
				zap.Int("skipped", stats.Skipped))
			fmt.Fprintln(cmd.OutOrStdout(), augmented)

			if stats.Succeeded == 0 && stats.Failed > 0 {
				return fmt.Errorf("synthesis failed for all %d records", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "dataset path (required)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for WAV files (default data dir + audio)")
	cmd.Flags().StringVar(&device, "device", "", "TTS execution device override (cpu, cuda)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent synthesis calls (default from config)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
