// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove duplicate records across sources",
	Long: `Dedup flags duplicates by normalized DOI, then by title fingerprint, then by
fuzzy title similarity among records sharing a first-author surname and a
publication year within the configured window. The survivor of each pair
is chosen by DOI presence, abstract length and source rank.

Writes 02_Papers_without_duplicate (kept rows, unwanted titles and
abstracts removed) and 03_output_with_duplicate_flags (every row with its
DuplicateFlag, Keep and derived keys).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("threshold") {
			app.cfg.Dedup.FuzzyThreshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		if cmd.Flags().Changed("year-window") {
			app.cfg.Dedup.YearWindow, _ = cmd.Flags().GetInt("year-window")
		}
		in, _ := cmd.Flags().GetString("input")
		if in == "" {
			in = app.resultPath(fileConsolidated)
		}
		_, err := app.dedup(in)
		return err
	},
}

func init() {
	dedupCmd.Flags().String("input", "", "input table (default: results/01_consolidated_papers)")
	dedupCmd.Flags().Float64("threshold", 95, "fuzzy title similarity threshold, 0-100")
	dedupCmd.Flags().Int("year-window", 1, "tolerated publication-year skew for fuzzy matches")

	rootCmd.AddCommand(dedupCmd)
}
