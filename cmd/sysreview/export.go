// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sysreview/internal/analysis"
)

var exportCmd = &cobra.Command{
	Use:   "export [table]",
	Short: "Export records as CSL-YAML references",
	Long: `Export converts a stage table into a CSL-YAML reference list usable by
pandoc and most reference managers. The default input is
06_classified_papers; "-o -" writes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := app.resultPath(fileClassified)
		if len(args) == 1 {
			in = args[0]
		}
		records, err := readRecords(in)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = app.resultFile(fileReferences)
		}
		if out == "-" {
			return analysis.WriteCSL(records, app.out)
		}
		if err := os.MkdirAll(app.cfg.Output.ResultsDir, 0o755); err != nil {
			return fmt.Errorf("creating results directory: %w", err)
		}
		fh, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		if err := analysis.WriteCSL(records, fh); err != nil {
			fh.Close()
			return err
		}
		if err := fh.Close(); err != nil {
			return err
		}
		fmt.Fprintf(app.out, "export: %d references -> %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default: results/references.yaml)")

	rootCmd.AddCommand(exportCmd)
}
