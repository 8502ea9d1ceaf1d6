// voiceval evaluates a voice-assistant language model across text and
// synthesized-speech modalities and reports the modality gap.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/petrov1c/voiceval/internal/config"
	"github.com/petrov1c/voiceval/internal/datastore"
	"github.com/petrov1c/voiceval/internal/logging"
)

var version = "dev"

// app carries the state shared by all subcommands.
type app struct {
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "voiceval",
		Short:         "Voice assistant modality-gap evaluation pipeline",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(
		newGenerateCmd(a),
		newSynthesizeCmd(a),
		newEvaluateCmd(a),
		newAnalyzeCmd(a),
		newRunsCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore opens the run-history database. A broken store degrades to nil:
// provenance is best effort and must never block the pipeline itself.
func (a *app) openStore() *datastore.Store {
	if err := os.MkdirAll(filepath.Dir(a.cfg.StorePath), 0o755); err != nil {
		a.logger.Warn("cannot create store directory, run history disabled", zap.Error(err))
		return nil
	}
	store, err := datastore.Open(a.cfg.StorePath)
	if err != nil {
		a.logger.Warn("cannot open run store, run history disabled", zap.Error(err))
		return nil
	}
	return store
}

// recordRun starts a history entry, tolerating a nil store.
func recordRun(store *datastore.Store, logger *zap.Logger, stage, datasetPath, modality string) string {
	if store == nil {
		return ""
	}
	id, err := store.StartRun(stage, datasetPath, modality)
	if err != nil {
		logger.Warn("failed to record run start", zap.Error(err))
		return ""
	}
	return id
}

// finishRun completes a history entry, tolerating a nil store or empty id.
func finishRun(store *datastore.Store, logger *zap.Logger, id string, items, failures int, status string) {
	if store == nil || id == "" {
		return
	}
	if err := store.CompleteRun(id, items, failures, status); err != nil {
		logger.Warn("failed to record run completion", zap.Error(err))
	}
}
