// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance marks records as Related or Not Related against staged
// boolean queries, broadest stage first. A stage can run alone over a
// record set or stages can be chained so each stage only sees the records
// the previous stage kept.
package relevance

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sysreview/internal/query"
	"github.com/pdiddy/sysreview/pkg/types"
)

// RequiredColumns are the columns a relevance input table must carry.
var RequiredColumns = []string{types.ColTitle, types.ColAbstract, types.ColKeywords}

// Stage is one named, parsed relevance query. Number is 1-based.
type Stage struct {
	Number int
	Name   string
	expr   *query.Expr
}

// Query returns the query string as configured.
func (s Stage) Query() string { return s.expr.Raw() }

// Processed returns the normalized form of the parsed query.
func (s Stage) Processed() string { return s.expr.String() }

// StageResult is the outcome of applying one stage.
type StageResult struct {
	Stage Stage

	// All holds every input record annotated with the Related column.
	All []types.Record

	// Related holds the records marked Related, in input order.
	Related []types.Record

	// Elapsed is how long matching took.
	Elapsed time.Duration
}

// NotRelated returns the number of records the stage rejected.
func (r StageResult) NotRelated() int { return len(r.All) - len(r.Related) }

// Filter applies configured stages. It is safe for concurrent use.
type Filter struct {
	stages []Stage
	logger *zap.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the filter's logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// New parses every stage query in cfg.
func New(cfg types.RelevanceConfig, opts ...Option) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Filter{logger: zap.NewNop()}
	for _, o := range opts {
		o(f)
	}
	for i, s := range cfg.Stages {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Stage %d", i+1)
		}
		f.stages = append(f.stages, Stage{Number: i + 1, Name: name, expr: query.Parse(s.Query)})
	}
	return f, nil
}

// Stages returns the configured stages in order.
func (f *Filter) Stages() []Stage {
	return append([]Stage(nil), f.stages...)
}

// Stage returns stage n (1-based).
func (f *Filter) Stage(n int) (Stage, error) {
	if n < 1 || n > len(f.stages) {
		return Stage{}, fmt.Errorf("stage %d out of range 1-%d", n, len(f.stages))
	}
	return f.stages[n-1], nil
}

// Apply evaluates stage against every record's title, abstract and
// keywords. Records are copied; only the Related column is added.
func (f *Filter) Apply(records []types.Record, stage Stage) StageResult {
	start := time.Now()
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.RelevanceText()
	}
	mask := query.BuildMask(stage.expr, texts)

	res := StageResult{Stage: stage, All: make([]types.Record, len(records))}
	for i, r := range records {
		label := types.NotRelated
		if mask[i] {
			label = types.Related
		}
		res.All[i] = r.With(types.ColRelated, label)
		if mask[i] {
			res.Related = append(res.Related, res.All[i])
		}
	}
	res.Elapsed = time.Since(start)
	f.logger.Info("relevance stage applied",
		zap.Int("stage", stage.Number),
		zap.String("name", stage.Name),
		zap.Int("input", len(records)),
		zap.Int("related", len(res.Related)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

// RunSingle applies stage n to the full record set.
func (f *Filter) RunSingle(records []types.Record, n int) (StageResult, error) {
	st, err := f.Stage(n)
	if err != nil {
		return StageResult{}, err
	}
	return f.Apply(records, st), nil
}

// RunChained applies the given stages in order, feeding each stage the
// Related records of the previous one. No numbers means every stage.
func (f *Filter) RunChained(records []types.Record, numbers ...int) ([]StageResult, error) {
	if len(numbers) == 0 {
		for _, s := range f.stages {
			numbers = append(numbers, s.Number)
		}
	}
	var out []StageResult
	in := records
	for _, n := range numbers {
		st, err := f.Stage(n)
		if err != nil {
			return nil, err
		}
		res := f.Apply(in, st)
		out = append(out, res)
		in = stripRelated(res.Related)
	}
	return out, nil
}

// stripRelated removes the previous stage's annotation so the next stage
// writes its own.
func stripRelated(records []types.Record) []types.Record {
	out := make([]types.Record, len(records))
	for i, r := range records {
		c := r
		c.Extra = nil
		for _, e := range r.Extra {
			if e.Name != types.ColRelated {
				c.Extra = append(c.Extra, e)
			}
		}
		out[i] = c
	}
	return out
}
