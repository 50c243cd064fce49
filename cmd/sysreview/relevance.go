// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var relevanceCmd = &cobra.Command{
	Use:   "relevance",
	Short: "Apply the staged boolean relevance queries",
	Long: `Relevance evaluates the configured stage queries against each record's
title, abstract and keywords and marks it Related or Not Related.

  --stage N       apply stage N to the whole input (repeatable)
  --chained       apply every stage in turn, each to the previous stage's
                  related rows
  --from-dedup    chained, starting from 02_Papers_without_duplicate

Each stage writes 04_stageN_<name>_all, 05_stageN_<name>_filtered and a
YAML query log with the original and processed query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stages, _ := cmd.Flags().GetIntSlice("stage")
		chained, _ := cmd.Flags().GetBool("chained")
		fromDedup, _ := cmd.Flags().GetBool("from-dedup")
		in, _ := cmd.Flags().GetString("input")

		switch {
		case fromDedup:
			chained = true
			in = app.resultPath(fileDeduplicated)
		case in == "":
			var err error
			in, err = latest(app.resultPath(fileDeduplicated), app.resultPath(fileConsolidated))
			if err != nil {
				return err
			}
		}
		if !chained && len(stages) == 0 {
			return fmt.Errorf("select --stage N, --chained or --from-dedup")
		}

		_, err := app.relevance(in, chained, stages)
		return err
	},
}

func init() {
	relevanceCmd.Flags().IntSlice("stage", nil, "stage number to apply to the full input (repeatable)")
	relevanceCmd.Flags().Bool("chained", false, "chain the stages, each filtering the previous stage's output")
	relevanceCmd.Flags().Bool("from-dedup", false, "chain every stage starting from the deduplicated table")
	relevanceCmd.Flags().String("input", "", "input table (default: the deduplicated, else the consolidated table)")

	rootCmd.AddCommand(relevanceCmd)
}
