// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/sysreview/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Assign one category label to each record",
	Long: `Classify evaluates every category rule against each record and keeps the
best match by priority order, title match, rule specificity and name.
Records matching no rule are labeled Unclassified. Writes
06_classified_papers; with --summarize also writes the label counts
overall and per year.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mode, _ := cmd.Flags().GetString("mode"); cmd.Flags().Changed("mode") {
			m, err := types.ParseClassifyMode(mode)
			if err != nil {
				return err
			}
			app.cfg.Classifier.Mode = m
		}
		summarize, _ := cmd.Flags().GetBool("summarize")

		in, _ := cmd.Flags().GetString("from")
		if in == "" {
			var err error
			if in, err = app.lastFiltered(); err != nil {
				return err
			}
		}
		_, err := app.classify(in, summarize)
		return err
	},
}

func init() {
	classifyCmd.Flags().String("mode", "both", "text to classify: title, abstract or both")
	classifyCmd.Flags().String("from", "", "input table (default: the most specific filtered stage table)")
	classifyCmd.Flags().Bool("summarize", false, "write label summaries overall and by year")

	rootCmd.AddCommand(classifyCmd)
}
