package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/datastore"
	"github.com/petrov1c/voiceval/internal/evaluation"
	"github.com/petrov1c/voiceval/internal/providers"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		input     string
		modality  string
		outputDir string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the model under test over a dataset",
		Long: `Evaluate sends every dataset record to the configured model in the
chosen modality (text, audio or both) and writes one results artifact per
modality. Per-record provider failures are recorded, never fatal; the command
fails only when the whole run produced nothing usable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := evaluation.ParseModality(modality)
			if err != nil {
				return err
			}
			ds, err := dataset.Load(input)
			if err != nil {
				return err
			}

			model, err := providers.NewModelProvider(a.cfg.Model, a.logger)
			if err != nil {
				return err
			}
			ev := evaluation.New(model, evaluation.Config{
				Workers:     a.cfg.Evaluation.Workers,
				CallTimeout: a.cfg.Evaluation.CallTimeout,
			}, a.logger)

			if outputDir == "" {
				outputDir = filepath.Join(a.cfg.DataDir, "results")
			}
			allowOverwrite := overwrite || a.cfg.Evaluation.Overwrite
			for _, pass := range passModalities(m) {
				path := filepath.Join(outputDir, evaluation.BatchName(pass))
				if _, err := os.Stat(path); err == nil && !allowOverwrite {
					return fmt.Errorf("results artifact %s already exists (use --overwrite to replace)", path)
				}
			}

			store := a.openStore()
			if store != nil {
				defer store.Close()
			}
			runID := recordRun(store, a.logger, "evaluate", input, string(m))

			batches, err := ev.Evaluate(cmd.Context(), ds, m)
			if err != nil {
				finishRun(store, a.logger, runID, 0, 0, datastore.StatusFailed)
				return err
			}

			items, failures := 0, 0
			for _, batch := range batches {
				batch.DatasetPath = input
				path := filepath.Join(outputDir, evaluation.BatchName(batch.Modality))
				if err := batch.Save(path); err != nil {
					finishRun(store, a.logger, runID, items, failures, datastore.StatusFailed)
					return err
				}
				items += len(batch.Records)
				failures += batch.FailureCount()
				a.logger.Info("results written",
					zap.String("path", path),
					zap.String("modality", string(batch.Modality)),
					zap.Int("failures", batch.FailureCount()))
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			status := datastore.StatusCompleted
			if items > 0 && failures == items {
				status = datastore.StatusFailed
			}
			finishRun(store, a.logger, runID, items, failures, status)

			if items > 0 && failures == items {
				return fmt.Errorf("evaluation failed for all %d records", items)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "dataset path (required)")
	cmd.Flags().StringVarP(&modality, "modality", "m", "both", "modality to evaluate: text, audio or both")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for results artifacts (default data dir + results)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing results artifacts")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func passModalities(m evaluation.Modality) []evaluation.Modality {
	if m == evaluation.ModalityBoth {
		return []evaluation.Modality{evaluation.ModalityText, evaluation.ModalityAudio}
	}
	return []evaluation.Modality{m}
}
