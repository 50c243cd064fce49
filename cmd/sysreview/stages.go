// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/sysreview/internal/analysis"
	"github.com/pdiddy/sysreview/internal/classify"
	"github.com/pdiddy/sysreview/internal/consolidate"
	"github.com/pdiddy/sysreview/internal/dedup"
	"github.com/pdiddy/sysreview/internal/relevance"
	"github.com/pdiddy/sysreview/internal/table"
	"github.com/pdiddy/sysreview/pkg/types"
)

// Stage output names, without extension, inside the results folder.
const (
	fileConsolidated   = "01_consolidated_papers"
	fileDeduplicated   = "02_Papers_without_duplicate"
	fileDuplicateFlags = "03_output_with_duplicate_flags"
	fileClassified     = "06_classified_papers"
	fileSummary        = "07_numerical_analysis_summary.txt"
	filePapersPerYear  = "08_papers_per_year"
	fileDocTypes       = "09_document_identifier_distribution"
	fileSources        = "10_source_distribution"
	fileTrends         = "11_query_trends"
	fileTrendLegend    = "11_query_trends_legend"
	fileClassOverall   = "classification_summary_overall"
	fileClassByYear    = "classification_summary_by_year"
	fileScreening      = "Screening_Results"
	fileReferences     = "references.yaml"
)

// stageNames label the default three relevance stages in file names.
var stageNames = []string{"broad", "narrow", "specific"}

// stageTag names stage n in file names: "stage1_broad" for the default
// stages, "stage4" beyond them.
func stageTag(n int) string {
	if n >= 1 && n <= len(stageNames) {
		return fmt.Sprintf("stage%d_%s", n, stageNames[n-1])
	}
	return fmt.Sprintf("stage%d", n)
}

func (e *env) resultPath(base string) string {
	return table.Path(e.cfg.Output.ResultsDir, base, e.cfg.Output.Format)
}

func (e *env) resultFile(name string) string {
	return filepath.Join(e.cfg.Output.ResultsDir, name)
}

// readRecords loads a stage input table, failing when a required column is
// missing.
func readRecords(path string, required ...string) ([]types.Record, error) {
	f, err := table.Read(path)
	if err != nil {
		return nil, err
	}
	if err := f.Require(required...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Records(), nil
}

func writeRecords(path string, records []types.Record) error {
	return table.Write(path, table.FromRecords(records))
}

// latest returns the first candidate that exists.
func latest(candidates ...string) (string, error) {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("none of %v exists; run the earlier stage first", candidates)
}

// consolidate merges the per-source exports into the consolidated table.
func (e *env) consolidate() (string, error) {
	start := time.Now()
	c, err := consolidate.New(e.cfg.Consolidation, consolidate.WithLogger(e.log))
	if err != nil {
		return "", err
	}
	res, err := c.Run()
	if err != nil {
		return "", err
	}
	out := e.resultPath(fileConsolidated)
	if err := writeRecords(out, res.Records); err != nil {
		return "", err
	}
	st := res.Stats
	e.metrics.ObserveStage("consolidate", st.Entries, st.Records, time.Since(start))
	e.metrics.AddDuplicates("identical", st.Duplicates)
	fmt.Fprintf(e.out, "consolidate: %d files, %d entries, %d identical skipped, %d records -> %s\n",
		st.Files, st.Entries, st.Duplicates, st.Records, out)
	return out, nil
}

// dedup writes the kept table and the audit table with duplicate flags.
func (e *env) dedup(in string) (string, error) {
	start := time.Now()
	records, err := readRecords(in, dedup.RequiredColumns...)
	if err != nil {
		return "", err
	}
	engine, err := dedup.New(e.cfg.Dedup, dedup.WithLogger(e.log))
	if err != nil {
		return "", err
	}
	res := engine.Deduplicate(records)

	out := e.resultPath(fileDeduplicated)
	if err := writeRecords(out, res.Kept); err != nil {
		return "", err
	}
	if err := writeRecords(e.resultPath(fileDuplicateFlags), res.AuditRecords()); err != nil {
		return "", err
	}

	st := res.Stats
	e.metrics.ObserveStage("dedup", st.Input, st.Kept, time.Since(start))
	e.metrics.AddDuplicates("doi", st.DOIDuplicates)
	e.metrics.AddDuplicates("fingerprint", st.FingerprintDuplicates)
	e.metrics.AddDuplicates("fuzzy", st.FuzzyDuplicates)
	e.metrics.AddDuplicates("unwanted", st.Unwanted)
	fmt.Fprintf(e.out, "dedup: %d in, %d DOI, %d fingerprint, %d fuzzy, %d unwanted, %d kept -> %s\n",
		st.Input, st.DOIDuplicates, st.FingerprintDuplicates, st.FuzzyDuplicates, st.Unwanted, st.Kept, out)
	return out, nil
}

// relevance applies the given stages to the table at in, each to the full
// input or, when chained, each to the previous stage's related rows. It
// returns the last filtered table.
func (e *env) relevance(in string, chained bool, stages []int) (string, error) {
	records, err := readRecords(in, relevance.RequiredColumns...)
	if err != nil {
		return "", err
	}
	f, err := relevance.New(e.cfg.Relevance, relevance.WithLogger(e.log))
	if err != nil {
		return "", err
	}

	var results []relevance.StageResult
	if chained {
		results, err = f.RunChained(records, stages...)
		if err != nil {
			return "", err
		}
	} else {
		if len(stages) == 0 {
			return "", errors.New("relevance: no stage selected")
		}
		for _, n := range stages {
			res, err := f.RunSingle(records, n)
			if err != nil {
				return "", err
			}
			results = append(results, res)
		}
	}

	var last string
	for _, res := range results {
		tag := stageTag(res.Stage.Number)
		if err := writeRecords(e.resultPath("04_"+tag+"_all"), res.All); err != nil {
			return "", err
		}
		last = e.resultPath("05_" + tag + "_filtered")
		if err := writeRecords(last, res.Related); err != nil {
			return "", err
		}
		ql := relevance.NewQueryLog(e.runID, res)
		if err := relevance.WriteQueryLog(e.resultFile(tag+"_query_log.yaml"), ql); err != nil {
			return "", err
		}
		e.metrics.ObserveStage(tag, len(res.All), len(res.Related), res.Elapsed)
		fmt.Fprintf(e.out, "relevance: %s: %d in, %d related, %d not related -> %s\n",
			res.Stage.Name, len(res.All), len(res.Related), res.NotRelated(), last)
	}
	return last, nil
}

// lastRun describes the latest run of stage s recorded in its query log,
// or "" when the stage has not run into the results folder.
func (e *env) lastRun(s relevance.Stage) string {
	ql, err := relevance.ReadQueryLog(e.resultFile(stageTag(s.Number) + "_query_log.yaml"))
	if err != nil {
		return ""
	}
	note := fmt.Sprintf("last run %s: %d of %d related",
		ql.Timestamp.Local().Format(time.DateTime), ql.Related, ql.Input)
	if ql.Query != s.Query() {
		note += " (query changed since)"
	}
	return note
}

// lastFiltered returns the most specific filtered table on disk.
func (e *env) lastFiltered() (string, error) {
	var candidates []string
	for n := len(e.cfg.Relevance.Stages); n >= 1; n-- {
		candidates = append(candidates, e.resultPath("05_"+stageTag(n)+"_filtered"))
	}
	return latest(candidates...)
}

// classify labels the table at in. When summarize is set the label counts
// overall and per year are written too.
func (e *env) classify(in string, summarize bool) (string, error) {
	start := time.Now()
	records, err := readRecords(in, classify.RequiredColumns...)
	if err != nil {
		return "", err
	}
	c, err := classify.New(e.cfg.Classifier, classify.WithLogger(e.log))
	if err != nil {
		return "", err
	}
	labeled := c.ClassifyAll(records)

	out := e.resultPath(fileClassified)
	if err := writeRecords(out, labeled); err != nil {
		return "", err
	}
	e.metrics.ObserveStage("classify", len(records), len(labeled), time.Since(start))
	fmt.Fprintf(e.out, "classify: %d records (mode %s) from %s -> %s\n", len(labeled), c.Mode(), in, out)

	if summarize {
		if err := e.classSummaries(labeled); err != nil {
			return "", err
		}
	}
	return out, nil
}

func (e *env) classSummaries(labeled []types.Record) error {
	overall := analysis.LabelSummary(labeled)
	if err := table.Write(e.resultPath(fileClassOverall), analysis.LabelSummaryFrame(overall)); err != nil {
		return err
	}
	byYear := analysis.LabelsByYear(labeled)
	if err := table.Write(e.resultPath(fileClassByYear), analysis.LabelsByYearFrame(byYear)); err != nil {
		return err
	}
	for _, lc := range overall {
		fmt.Fprintf(e.out, "  %-24s %5d  %6.2f%%\n", lc.Label, lc.Count, lc.Percent)
	}
	return nil
}

// summarize appends a numerical summary of the table at in under label and
// writes the per-year and distribution tables.
func (e *env) summarize(in, label string, cfg types.AnalysisConfig) error {
	f, err := table.Read(in)
	if err != nil {
		return err
	}
	if err := f.Require(types.ColYear); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	rep := analysis.Analyze(label, f.Records(), cfg)
	if err := os.MkdirAll(e.cfg.Output.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	if err := analysis.AppendSummary(e.resultFile(fileSummary), rep); err != nil {
		return err
	}
	if err := table.Write(e.resultPath(filePapersPerYear), analysis.YearFrame(rep.PerYear)); err != nil {
		return err
	}
	if err := table.Write(e.resultPath(fileDocTypes), analysis.CountFrame(types.ColDocumentIdentifier, rep.DocumentTypes)); err != nil {
		return err
	}
	if err := table.Write(e.resultPath(fileSources), analysis.CountFrame(types.ColSource, rep.Sources)); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "summarize: %q: %d records, %d in %d-%d\n",
		label, f.Len(), rep.Total, rep.StartYear, rep.EndYear)
	return nil
}

// trends turns the accumulated summaries into a year-by-query table.
func (e *env) trends() (string, error) {
	path := e.resultFile(fileSummary)
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("no summary file: %w", err)
	}
	defer fh.Close()

	trends, err := analysis.ParseSummaries(fh)
	if err != nil {
		return "", err
	}
	if len(trends) == 0 {
		return "", fmt.Errorf("no summaries found in %s", path)
	}
	out := e.resultPath(fileTrends)
	if err := table.Write(out, analysis.TrendFrame(trends)); err != nil {
		return "", err
	}
	if err := table.Write(e.resultPath(fileTrendLegend), analysis.TrendLegend(trends)); err != nil {
		return "", err
	}
	for i, t := range trends {
		fmt.Fprintf(e.out, "  %s: %s\n", analysis.ShortLabel(i), t.Query)
	}
	fmt.Fprintf(e.out, "trends: %d queries -> %s\n", len(trends), out)
	return out, nil
}
