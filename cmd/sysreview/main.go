// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sysreview CLI. Each pipeline
// stage is a subcommand that reads the previous stage's table from the
// results folder and writes its own, so any stage can be rerun alone.
package main

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/sysreview/internal/logging"
	"github.com/pdiddy/sysreview/internal/metrics"
	"github.com/pdiddy/sysreview/internal/secrets"
	"github.com/pdiddy/sysreview/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// env carries what every subcommand needs. It is built once per
// invocation in PersistentPreRunE.
type env struct {
	cfg     types.PipelineConfig
	secrets map[string]string
	log     *zap.Logger
	runID   string
	metrics *metrics.Metrics
	out     io.Writer
	started time.Time
}

var app *env

// rootCmd is the base command for the sysreview CLI.
var rootCmd = &cobra.Command{
	Use:   "sysreview",
	Short: "Systematic literature review pipeline",
	Long: `sysreview turns raw bibliographic exports into a screened, classified
corpus. The stages are subcommands: consolidate, dedup, relevance, classify,
summarize and screen. Each stage writes a numbered table into the results
folder; "run" chains the offline stages end to end.

Queries, category rules, thresholds and removal lists come from
sysreview.yaml; defaults cover a child-robot interaction review.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		base, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		runID := uuid.NewString()
		log := logging.WithRun(base, runID, cmd.Name())

		s, err := secrets.Load(".secrets/", log)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug("loaded secrets", zap.Strings("keys", keys))
		}

		m := metrics.New()
		m.SetRun(runID, cmd.Name())

		app = &env{
			cfg:     cfg,
			secrets: s,
			log:     log,
			runID:   runID,
			metrics: m,
			out:     cmd.OutOrStdout(),
			started: time.Now(),
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		defer func() { _ = app.log.Sync() }()
		app.log.Debug("command finished", zap.Duration("elapsed", time.Since(app.started)))
		return app.metrics.WriteTextfile(app.cfg.Metrics.Textfile)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
