// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis aggregates record sets into the counts reported after
// each pipeline stage: papers per year, document-type and source
// distributions, classification label summaries and query trends.
package analysis

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/sysreview/internal/dedup"
	"github.com/pdiddy/sysreview/internal/table"
	"github.com/pdiddy/sysreview/pkg/types"
)

// YearCount is the number of records published in one year.
type YearCount struct {
	Year  int
	Count int
}

// Count is the number of records carrying one value of a column.
type Count struct {
	Value string
	Count int
}

// FilterYears keeps records whose year parses and falls in [start, end].
func FilterYears(records []types.Record, start, end int) []types.Record {
	var out []types.Record
	for _, r := range records {
		y, ok := dedup.ParseYear(r.Year)
		if ok && y >= start && y <= end {
			out = append(out, r)
		}
	}
	return out
}

// PapersPerYear counts records per parsed year, in ascending year order.
// Records without a numeric year are not counted.
func PapersPerYear(records []types.Record) []YearCount {
	counts := make(map[int]int)
	for _, r := range records {
		if y, ok := dedup.ParseYear(r.Year); ok {
			counts[y]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Distribution counts the non-empty values of column, most frequent first
// with ties in value order. topN <= 0 returns every value.
func Distribution(records []types.Record, column string, topN int) []Count {
	counts := make(map[string]int)
	for _, r := range records {
		if v := strings.TrimSpace(r.Get(column)); v != "" {
			counts[v]++
		}
	}
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Report is the set of counts produced for one record set.
type Report struct {
	Label          string
	Total          int
	PerYear        []YearCount
	DocumentTypes  []Count
	Sources        []Count
	StartYear      int
	EndYear        int
	RecordsInRange []types.Record
}

// Analyze filters records to cfg's year range and computes every count.
func Analyze(label string, records []types.Record, cfg types.AnalysisConfig) Report {
	in := FilterYears(records, cfg.StartYear, cfg.EndYear)
	return Report{
		Label:          label,
		Total:          len(in),
		PerYear:        PapersPerYear(in),
		DocumentTypes:  Distribution(in, types.ColDocumentIdentifier, 0),
		Sources:        Distribution(in, types.ColSource, cfg.TopSources),
		StartYear:      cfg.StartYear,
		EndYear:        cfg.EndYear,
		RecordsInRange: in,
	}
}

// YearFrame renders per-year counts as a Year/Count table.
func YearFrame(counts []YearCount) *table.Frame {
	f := table.New("Year", "Count")
	for _, c := range counts {
		f.AppendRow([]string{strconv.Itoa(c.Year), strconv.Itoa(c.Count)})
	}
	return f
}

// CountFrame renders value counts as a two-column table.
func CountFrame(column string, counts []Count) *table.Frame {
	f := table.New(column, "Count")
	for _, c := range counts {
		f.AppendRow([]string{c.Value, strconv.Itoa(c.Count)})
	}
	return f
}
