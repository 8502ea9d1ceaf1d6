package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/dataset"
	"github.com/petrov1c/voiceval/internal/datastore"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		count        int
		seed         int64
		categories   []string
		output       string
		allowPartial bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a reproducible labeled dataset",
		Long: `Generate a seeded dataset of Russian voice-assistant prompts with
expected tool invocations. The same count, seed and category selection always
produce identical record content.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.openStore()
			if store != nil {
				defer store.Close()
			}

			opts := []dataset.Option{dataset.WithTolerance(a.cfg.Generator.Tolerance)}
			if allowPartial || a.cfg.Generator.AllowPartial {
				opts = append(opts, dataset.WithAllowPartial(true))
			}
			gen := dataset.NewGenerator(a.logger, opts...)

			path := output
			if path == "" {
				path = filepath.Join(a.cfg.DataDir, "datasets", dataset.ArtifactName(count, seed))
			}

			runID := recordRun(store, a.logger, "generate", path, "")
			ds, err := gen.Generate(count, seed, categories)
			if err != nil {
				finishRun(store, a.logger, runID, 0, 0, datastore.StatusFailed)
				return err
			}
			if err := ds.Save(path); err != nil {
				finishRun(store, a.logger, runID, len(ds.Records), 0, datastore.StatusFailed)
				return err
			}
			finishRun(store, a.logger, runID, len(ds.Records), 0, datastore.StatusCompleted)

			a.logger.Info("dataset written",
				zap.String("path", path),
				zap.Int("records", len(ds.Records)),
				zap.Bool("partial", ds.Partial))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of records to generate")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 42, "random seed")
	cmd.Flags().StringSliceVar(&categories, "categories", nil,
		"categories to include (default all: flights, calendar, music, notes, no_tool)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default data dir + derived name)")
	cmd.Flags().BoolVar(&allowPartial, "allow-partial", false,
		"cap oversized categories at the repetition tolerance instead of failing")
	return cmd
}
