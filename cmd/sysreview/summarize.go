// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <table>",
	Short: "Count papers per year, document type and source",
	Long: `Summarize restricts a stage table to the analysis year range, appends a
"Query:" block with the per-year counts to 07_numerical_analysis_summary.txt
and writes the papers-per-year, document-type and source distribution
tables. Blocks accumulate across runs; "trends" reads them back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Analysis
		if cmd.Flags().Changed("start-year") {
			cfg.StartYear, _ = cmd.Flags().GetInt("start-year")
		}
		if cmd.Flags().Changed("end-year") {
			cfg.EndYear, _ = cmd.Flags().GetInt("end-year")
		}
		if cfg.StartYear > cfg.EndYear {
			return fmt.Errorf("start year %d is after end year %d", cfg.StartYear, cfg.EndYear)
		}
		label, _ := cmd.Flags().GetString("label")
		if label == "" {
			label = args[0]
		}
		return app.summarize(args[0], label, cfg)
	},
}

func init() {
	summarizeCmd.Flags().String("label", "", "label recorded as the Query line (default: the table path)")
	summarizeCmd.Flags().Int("start-year", 2010, "first year counted")
	summarizeCmd.Flags().Int("end-year", 2023, "last year counted")

	rootCmd.AddCommand(summarizeCmd)
}
