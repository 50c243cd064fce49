// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sysreview/internal/table"
	"github.com/pdiddy/sysreview/pkg/types"
)

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./sysreview.yaml or ~/.config/sysreview/sysreview.yaml)")
	pf.String("results-dir", "results", "folder receiving every stage output")
	pf.String("format", "xlsx", "table format: xlsx, csv, tsv, json, yaml or db")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("metrics-textfile", "", "write Prometheus metrics to this .prom file after the command")

	_ = viper.BindPFlag("output.results_dir", pf.Lookup("results-dir"))
	_ = viper.BindPFlag("output.format", pf.Lookup("format"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("metrics.textfile", pf.Lookup("metrics-textfile"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sysreview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sysreview"))
		}
	}

	viper.SetEnvPrefix("SYSREVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the viper settings over the built-in defaults. Lists
// given in the config file replace the default lists.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Output.Format = strings.ToLower(strings.TrimPrefix(cfg.Output.Format, "."))
	if !table.ValidFormat(cfg.Output.Format) {
		return cfg, fmt.Errorf("output format %q: %w", cfg.Output.Format, table.ErrUnsupportedFormat)
	}
	if cfg.Output.ResultsDir == "" {
		cfg.Output.ResultsDir = "results"
	}
	if err := cfg.Dedup.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
