// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/sysreview/internal/dedup"
	"github.com/pdiddy/sysreview/internal/table"
	"github.com/pdiddy/sysreview/pkg/types"
)

// LabelCount is one row of the overall classification summary.
type LabelCount struct {
	Label   string
	Count   int
	Percent float64 // share of all records, rounded to two decimals
}

// YearLabelCount is one row of the by-year classification summary. Year is
// empty for records without a numeric year.
type YearLabelCount struct {
	Year  string
	Label string
	Count int
}

// label returns the first comma-separated label, or Unclassified.
func label(r types.Record) string {
	first, _, _ := strings.Cut(r.Get(types.ColClassification), ",")
	first = strings.TrimSpace(first)
	if first == "" || strings.EqualFold(first, "nan") {
		return types.Unclassified
	}
	return first
}

// LabelSummary counts labels over all records, most frequent first with
// ties in label order.
func LabelSummary(records []types.Record) []LabelCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[label(r)]++
	}
	out := make([]LabelCount, 0, len(counts))
	for l, n := range counts {
		pct := math.Round(float64(n)/float64(len(records))*100*100) / 100
		out = append(out, LabelCount{Label: l, Count: n, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// LabelsByYear counts labels per year: years ascending with unknown years
// last, then count descending, then label.
func LabelsByYear(records []types.Record) []YearLabelCount {
	type key struct {
		year  int
		known bool
		label string
	}
	counts := make(map[key]int)
	for _, r := range records {
		y, ok := dedup.ParseYear(r.Year)
		counts[key{year: y, known: ok, label: label(r)}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.known != b.known {
			return a.known
		}
		if a.year != b.year {
			return a.year < b.year
		}
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a.label < b.label
	})
	out := make([]YearLabelCount, len(keys))
	for i, k := range keys {
		year := ""
		if k.known {
			year = strconv.Itoa(k.year)
		}
		out[i] = YearLabelCount{Year: year, Label: k.label, Count: counts[k]}
	}
	return out
}

// LabelSummaryFrame renders the overall summary as Label/Count/Percent.
func LabelSummaryFrame(rows []LabelCount) *table.Frame {
	f := table.New("Label", "Count", "Percent")
	for _, r := range rows {
		f.AppendRow([]string{r.Label, strconv.Itoa(r.Count), strconv.FormatFloat(r.Percent, 'f', 2, 64)})
	}
	return f
}

// LabelsByYearFrame renders the by-year summary as Year/Label/Count.
func LabelsByYearFrame(rows []YearLabelCount) *table.Frame {
	f := table.New("Year", "Label", "Count")
	for _, r := range rows {
		f.AppendRow([]string{r.Year, r.Label, strconv.Itoa(r.Count)})
	}
	return f
}
