package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/analysis"
	"github.com/petrov1c/voiceval/internal/datastore"
	"github.com/petrov1c/voiceval/internal/evaluation"
	"github.com/petrov1c/voiceval/internal/objectstore"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		resultsDir string
		outputDir  string
		upload     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate results and render the modality-gap report",
		Long: `Analyze reads the per-modality results artifacts, recomputes the
summaries from raw score records, derives the text/audio modality gap when both
sides are present and renders the JSON and HTML report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resultsDir == "" {
				resultsDir = filepath.Join(a.cfg.DataDir, "results")
			}
			if outputDir == "" {
				outputDir = filepath.Join(a.cfg.DataDir, "report")
			}

			textBatch := loadBatchIfPresent(a, filepath.Join(resultsDir, evaluation.BatchName(evaluation.ModalityText)))
			audioBatch := loadBatchIfPresent(a, filepath.Join(resultsDir, evaluation.BatchName(evaluation.ModalityAudio)))
			if textBatch == nil && audioBatch == nil {
				return fmt.Errorf("no results artifacts found in %s", resultsDir)
			}

			analyzer := analysis.New(analysis.Config{
				UnreliableThreshold: a.cfg.Analysis.UnreliableThreshold,
				Weights:             a.cfg.Analysis.Weights,
			}, a.logger)

			store := a.openStore()
			if store != nil {
				defer store.Close()
			}
			runID := recordRun(store, a.logger, "analyze", resultsDir, "")

			var summaries []*analysis.MetricSummary
			var textSum, audioSum *analysis.MetricSummary
			items, failures := 0, 0
			if textBatch != nil {
				textSum = analyzer.Summarize(textBatch)
				summaries = append(summaries, textSum)
				items += textSum.ItemCount
				failures += textSum.FailureCount
			}
			if audioBatch != nil {
				audioSum = analyzer.Summarize(audioBatch)
				summaries = append(summaries, audioSum)
				items += audioSum.ItemCount
				failures += audioSum.FailureCount
			}

			var gap *analysis.ModalityGap
			if textSum != nil && audioSum != nil {
				var err error
				gap, err = analyzer.Gap(textSum, audioSum)
				if err != nil {
					finishRun(store, a.logger, runID, items, failures, datastore.StatusFailed)
					return err
				}
				agreement := analyzer.ComputeAgreement(textBatch, audioBatch)
				gap.Agreement = &agreement
			}

			if err := analyzer.WriteReport(summaries, gap, outputDir); err != nil {
				finishRun(store, a.logger, runID, items, failures, datastore.StatusFailed)
				return err
			}
			finishRun(store, a.logger, runID, items, failures, datastore.StatusCompleted)

			for _, s := range summaries {
				line := fmt.Sprintf("%s: %d records, %d failures, accuracy %.1f%%",
					s.Modality, s.ItemCount, s.FailureCount, s.Accuracy*100)
				if s.Unreliable {
					line += " [UNRELIABLE]"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if gap != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "overall modality gap: %.2f%%\n", gap.OverallScore)
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(outputDir, "report.html"))

			if upload {
				if err := uploadReport(cmd, a, outputDir); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "directory holding results artifacts (default data dir + results)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the report (default data dir + report)")
	cmd.Flags().BoolVar(&upload, "upload", false, "mirror the report into the configured object store")
	return cmd
}

// loadBatchIfPresent treats a missing artifact as a skipped modality,
// letting single-modality analysis run.
func loadBatchIfPresent(a *app, path string) *evaluation.ScoreBatch {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	batch, err := evaluation.LoadBatch(path)
	if err != nil {
		a.logger.Warn("skipping unreadable results artifact",
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	return batch
}

func uploadReport(cmd *cobra.Command, a *app, outputDir string) error {
	if !a.cfg.Object.Enabled() {
		return fmt.Errorf("--upload requires a configured object store endpoint")
	}
	client, err := objectstore.New(cmd.Context(), a.cfg.Object, a.logger)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("failed to list report directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, err := client.UploadFile(cmd.Context(), filepath.Join(outputDir, entry.Name()))
		if err != nil {
			return err
		}
		a.logger.Info("report artifact uploaded", zap.String("key", key))
	}
	return nil
}
