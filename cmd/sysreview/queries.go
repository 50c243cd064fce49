// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysreview/internal/classify"
	"github.com/pdiddy/sysreview/internal/relevance"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Show the configured relevance stages and category rules",
	Long: `Queries parses the configured stage queries and category rules and prints
them in evaluation order, with each query's processed form and, when the
stage has run into the results folder, its last counts. Use it to check
a sysreview.yaml before running the pipeline; invalid rules fail here the
same way they would fail a run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := relevance.New(app.cfg.Relevance)
		if err != nil {
			return err
		}
		c, err := classify.New(app.cfg.Classifier)
		if err != nil {
			return err
		}

		fmt.Fprintln(app.out, "Relevance stages:")
		for _, s := range f.Stages() {
			fmt.Fprintf(app.out, "  %d. %s\n     %s\n", s.Number, s.Name, s.Processed())
			if note := app.lastRun(s); note != "" {
				fmt.Fprintf(app.out, "     %s\n", note)
			}
		}

		fmt.Fprintf(app.out, "\nCategory rules (mode %s):\n", c.Mode())
		tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  PRIORITY\tCATEGORY\tSPECIFICITY\tQUERY")
		for _, r := range c.Rules() {
			fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\n", r.Priority+1, r.Category, r.Specificity, r.Query)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}
