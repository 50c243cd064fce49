// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen decides full-text eligibility of candidate papers by
// sending each PDF's text, with the eligibility criteria, to a language
// model. A failed paper is recorded as a No decision and the batch
// continues.
package screen

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/sysreview/internal/table"
	"github.com/pdiddy/sysreview/pkg/types"
)

// RetryWait is the base wait between attempts for one paper; it doubles
// per attempt and is capped at RetryWaitMax. Tests override both.
var (
	RetryWait    = 4 * time.Second
	RetryWaitMax = 10 * time.Second
)

// Paper is one PDF to screen.
type Paper struct {
	ID   string // file name without extension
	Path string
}

// ListPapers returns the PDFs in dir ordered by paper id.
func ListPapers(dir string) ([]Paper, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading PDF folder: %w", err)
	}
	var papers []Paper
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		papers = append(papers, Paper{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}
	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
	return papers, nil
}

// Option configures a Screener.
type Option func(*Screener)

// WithLogger sets the logger for per-paper progress.
func WithLogger(l *zap.Logger) Option {
	return func(s *Screener) { s.log = l }
}

// WithTextExtractor replaces PDF text extraction.
func WithTextExtractor(fn func(path string) (string, error)) Option {
	return func(s *Screener) { s.extract = fn }
}

// WithObserver registers a callback invoked after each paper is decided.
// It may be called from several goroutines.
func WithObserver(fn func(types.ScreeningResult)) Option {
	return func(s *Screener) { s.observe = fn }
}

// Screener runs eligibility screening over a folder of PDFs.
type Screener struct {
	cfg     types.ScreeningConfig
	backend Backend
	limiter *rate.Limiter
	log     *zap.Logger
	extract func(path string) (string, error)
	observe func(types.ScreeningResult)
}

// New creates a Screener that asks backend for decisions.
func New(cfg types.ScreeningConfig, backend Backend, opts ...Option) (*Screener, error) {
	if backend == nil {
		return nil, fmt.Errorf("screening: no backend")
	}
	if strings.TrimSpace(cfg.Criteria) == "" {
		return nil, fmt.Errorf("screening: criteria prompt is required")
	}
	s := &Screener{
		cfg:     cfg,
		backend: backend,
		log:     zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	if cfg.RequestDelay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)
	}
	for _, o := range opts {
		o(s)
	}
	if s.extract == nil {
		s.extract = func(path string) (string, error) {
			return ExtractText(path, cfg.MaxTextLength, s.log)
		}
	}
	return s, nil
}

// ScreenDir screens every PDF in dir with at most Concurrency papers in
// flight. Results are ordered by paper id. The error is non-nil only when
// the folder cannot be listed, holds no PDFs, or ctx is cancelled; after a
// cancellation the results hold only the papers decided before it.
func (s *Screener) ScreenDir(ctx context.Context, dir string) ([]types.ScreeningResult, error) {
	papers, err := ListPapers(dir)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("no PDFs found in %s", dir)
	}
	return s.ScreenPapers(ctx, papers)
}

// ScreenPapers screens papers, keeping their order in the result. Papers
// not started or interrupted by a cancelled ctx are left out and the
// context error is returned with the decided ones.
func (s *Screener) ScreenPapers(ctx context.Context, papers []Paper) ([]types.ScreeningResult, error) {
	s.log.Info("starting screening",
		zap.String("model", s.backend.Model()), zap.Int("papers", len(papers)))

	results := make([]types.ScreeningResult, len(papers))
	decided := make([]bool, len(papers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Concurrency))
	for i, p := range papers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			s.log.Info("screening paper",
				zap.Int("index", i+1), zap.Int("total", len(papers)), zap.String("paper_id", p.ID))
			res, err := s.screen(gctx, p)
			if err != nil {
				s.log.Warn("screening interrupted", zap.String("paper_id", p.ID), zap.Error(err))
				return nil
			}
			results[i], decided[i] = res, true
			if s.observe != nil {
				s.observe(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for i, ok := range decided {
		if ok {
			out = append(out, results[i])
		}
	}
	if err := ctx.Err(); err != nil {
		s.log.Warn("screening cancelled",
			zap.Int("decided", len(out)), zap.Int("skipped", len(papers)-len(out)))
		return out, err
	}
	return out, nil
}

// ScreenPaper extracts the paper text and asks for a decision. Errors are
// folded into a No decision whose justification names the failure.
func (s *Screener) ScreenPaper(ctx context.Context, p Paper) types.ScreeningResult {
	res, err := s.screen(ctx, p)
	if err != nil {
		res.Related = No
		res.Justification = "Error during screening: " + err.Error()
	}
	return res
}

// screen is ScreenPaper without the folding of a cancelled ctx: when ctx
// ends before a decision is reached the error is returned instead.
func (s *Screener) screen(ctx context.Context, p Paper) (types.ScreeningResult, error) {
	res := types.ScreeningResult{Model: s.backend.Model(), PaperID: p.ID}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	text, err := s.extract(p.Path)
	if err != nil {
		// Unreadable PDFs are still screened; the model sees no text.
		s.log.Error("PDF text extraction failed", zap.String("paper_id", p.ID), zap.Error(err))
		text = ""
	}

	d, err := s.decide(ctx, BuildPrompt(text, s.cfg.MaxTextLength))
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		s.log.Error("screening failed", zap.String("paper_id", p.ID), zap.Error(err))
		res.Related = No
		res.Justification = "Error during screening: " + err.Error()
		return res, nil
	}
	res.Related = d.Related
	res.Justification = d.Justification
	return res, nil
}

// decide calls the backend up to MaxRetries times (at least once), pacing
// every call through the shared rate limiter.
func (s *Screener) decide(ctx context.Context, prompt string) (Decision, error) {
	attempts := max(1, s.cfg.MaxRetries)
	var lastErr error
	for a := 0; a < attempts; a++ {
		if a > 0 {
			wait := min(time.Duration(math.Pow(2, float64(a-1)))*RetryWait, RetryWaitMax)
			select {
			case <-ctx.Done():
				return Decision{}, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return Decision{}, err
		}

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.cfg.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		}
		d, err := s.backend.Screen(callCtx, s.cfg.Criteria, prompt)
		cancel()
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return Decision{}, lastErr
}

// ResultsFrame renders results as the screening table. Empty cells read
// "N/A".
func ResultsFrame(results []types.ScreeningResult) *table.Frame {
	f := table.New(types.ScreeningColumns...)
	na := func(s string) string {
		if s = Sanitize(s); s == "" {
			return notAvailable
		}
		return s
	}
	for _, r := range results {
		f.AppendRow([]string{na(r.Model), na(r.PaperID), na(r.Related), na(r.Justification)})
	}
	return f
}

// Count tallies Yes and No decisions.
func Count(results []types.ScreeningResult) (yes, no int) {
	for _, r := range results {
		if r.Related == Yes {
			yes++
		} else {
			no++
		}
	}
	return yes, no
}
