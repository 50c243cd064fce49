// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run consolidate, dedup, chained relevance and classify in sequence",
	Long: `Run executes the offline pipeline end to end: consolidation, duplicate
removal, the chained relevance stages and classification with label
summaries. With --analyze (the default) each stage's output is also
summarized into 07_numerical_analysis_summary.txt and the trend table is
rebuilt at the end.

--skip-consolidate reuses an existing 01_consolidated_papers. Full-text
screening is not part of run; use "screen" once the PDFs are collected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		skipConsolidate, _ := cmd.Flags().GetBool("skip-consolidate")
		analyze, _ := cmd.Flags().GetBool("analyze")
		cfg := app.cfg.Analysis

		step := func(path, label string) error {
			if !analyze {
				return nil
			}
			return app.summarize(path, label, cfg)
		}

		var (
			current string
			err     error
		)
		if skipConsolidate {
			if current, err = latest(app.resultPath(fileConsolidated)); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Using existing consolidated file at:", current)
		} else {
			if current, err = app.consolidate(); err != nil {
				return err
			}
			if err := step(current, "After Consolidation"); err != nil {
				return err
			}
		}

		if current, err = app.dedup(current); err != nil {
			return err
		}
		if err := step(current, "After Duplicate Filtering"); err != nil {
			return err
		}

		if current, err = app.relevance(current, true, nil); err != nil {
			return err
		}
		if err := step(current, "Full chained stages"); err != nil {
			return err
		}

		if current, err = app.classify(current, true); err != nil {
			return err
		}

		if analyze {
			if _, err := app.trends(); err != nil {
				return err
			}
		}
		fmt.Fprintln(app.out, "run: complete, final table at", current)
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("skip-consolidate", false, "reuse the existing consolidated table")
	runCmd.Flags().Bool("analyze", true, "summarize each stage's output")

	rootCmd.AddCommand(runCmd)
}
