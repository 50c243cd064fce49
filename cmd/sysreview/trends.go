// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Tabulate paper counts per year across summarized queries",
	Long: `Trends parses every block in 07_numerical_analysis_summary.txt and writes a
table with one row per year and one column per query (Q1, Q2, ...), plus a
legend mapping each short label to its full query text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := app.trends()
		return err
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}
