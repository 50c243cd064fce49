// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Merge bibliographic exports into one record table",
	Long: `Consolidate reads every BibTeX, RIS and PubMed export under the configured
source folders (one folder per database, e.g. WoS/ or Scopus/), maps each
entry onto the canonical columns and writes 01_consolidated_papers. The
folder name becomes the Source column; document types collapse to Conf,
Journal or Book.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dir, _ := cmd.Flags().GetString("sources-dir"); cmd.Flags().Changed("sources-dir") {
			app.cfg.Consolidation.SourcesDir = dir
		}
		if src, _ := cmd.Flags().GetStringSlice("sources"); cmd.Flags().Changed("sources") {
			app.cfg.Consolidation.Sources = src
		}
		_, err := app.consolidate()
		return err
	},
}

func init() {
	consolidateCmd.Flags().String("sources-dir", ".", "directory holding one sub-folder per database export")
	consolidateCmd.Flags().StringSlice("sources", nil, "source folders to read, e.g. IEEE,WoS,Scopus (default from config)")

	rootCmd.AddCommand(consolidateCmd)
}
