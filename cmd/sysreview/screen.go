// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/sysreview/internal/screen"
	"github.com/pdiddy/sysreview/internal/secrets"
	"github.com/pdiddy/sysreview/internal/table"
	"github.com/pdiddy/sysreview/pkg/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen full-text PDFs against the eligibility criteria with an LLM",
	Long: `Screen extracts the text of every PDF in the paper folder, prepends hints
about publication year and participant ages, and asks the configured model
whether the paper meets the eligibility criteria. Each decision is Yes or
No with a one-sentence justification; failures are recorded as No with the
error. Writes Screening_Results with columns Model Used, paper_id, Related
and Justification. An interrupted run (Ctrl-C) leaves Screening_Results
untouched and writes the papers decided so far to Screening_Results_partial.

API keys are read from .secrets/openai-api-key or .secrets/anthropic-api-key,
falling back to OPENAI_API_KEY or ANTHROPIC_API_KEY.`,
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().String("provider", "", "AI provider: openai or anthropic (default from config)")
	screenCmd.Flags().String("model", "", "model identifier (default from config, gpt-4.1-mini)")
	screenCmd.Flags().String("pdf-dir", "", "folder of PDFs to screen (default paperpdf)")
	screenCmd.Flags().String("out", "", "output table (default: results/Screening_Results)")
	screenCmd.Flags().Int("concurrency", 0, "papers screened at once (default from config)")
	screenCmd.Flags().Duration("delay", 0, "minimum spacing between API calls (default 1s)")

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := app.cfg.Screening
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("pdf-dir"); v != "" {
		cfg.PDFDir = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Concurrency = v
	}
	if v, _ := cmd.Flags().GetDuration("delay"); v > 0 {
		cfg.RequestDelay = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := newBackend(cfg, app.secrets, app.log)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	done := 0
	s, err := screen.New(cfg, backend,
		screen.WithLogger(app.log),
		screen.WithObserver(func(r types.ScreeningResult) {
			app.metrics.IncDecision(r.Related)
			mu.Lock()
			done++
			fmt.Fprintf(app.out, "  [%d] %s: %s\n", done, r.PaperID, r.Related)
			mu.Unlock()
		}),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := s.ScreenDir(ctx, cfg.PDFDir)
	if err != nil && len(results) == 0 {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = app.resultPath(fileScreening)
	}
	if err != nil {
		// Interrupted: keep any finished table and save what was decided beside it.
		out = partialPath(out)
	}
	if werr := table.Write(out, screen.ResultsFrame(results)); werr != nil {
		return werr
	}
	yes, no := screen.Count(results)
	fmt.Fprintf(app.out, "screen: %d papers, %d Yes, %d No (%s) -> %s\n", len(results), yes, no, backend.Model(), out)
	return err
}

// partialPath names the table an interrupted screening run writes to:
// "Screening_Results_partial.xlsx" for "Screening_Results.xlsx".
func partialPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_partial" + ext
}

// newBackend builds the screening backend for cfg.Provider. A key set in
// the config wins over .secrets/ and the environment.
func newBackend(cfg types.ScreeningConfig, loaded map[string]string, log *zap.Logger) (screen.Backend, error) {
	key := cfg.APIKey
	if key == "" {
		var err error
		if key, err = secrets.ProviderKey(loaded, cfg.Provider); err != nil {
			return nil, err
		}
	}
	switch cfg.Provider {
	case "openai":
		return screen.NewOpenAIBackend(key, cfg.Model), nil
	case "anthropic":
		return &screen.ClaudeBackend{
			APIKey: key,
			Name:   cfg.Model,
			Client: &http.Client{Timeout: cfg.Timeout},
			Log:    log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
