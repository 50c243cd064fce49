// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/sysreview/internal/table"
)

// AppendSummary appends the numerical summary block of r to the text file
// at path, creating it when needed. Blocks accumulate across runs and are
// read back by ParseSummaries.
func AppendSummary(path string, r Report) error {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening summary file: %w", err)
	}
	if err := WriteSummary(fh, r); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// WriteSummary writes one summary block:
//
//	Query: <label>
//	Total Papers: <n>
//	Papers Per Year:
//	<year>: <count>
//	...
func WriteSummary(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", r.Label)
	fmt.Fprintf(&b, "Total Papers: %d\n", r.Total)
	b.WriteString("Papers Per Year:\n")
	for _, yc := range r.PerYear {
		fmt.Fprintf(&b, "%d: %d\n", yc.Year, yc.Count)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Trend is the per-year paper count recorded for one query label.
type Trend struct {
	Query  string
	Counts map[int]int
}

var yearLine = regexp.MustCompile(`^(\d{4}):\s*(\d+)`)

// ParseSummaries reads summary blocks. A label that appears more than once
// keeps its first position and its last block's counts.
func ParseSummaries(r io.Reader) ([]Trend, error) {
	var trends []Trend
	index := make(map[string]int)
	current := -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if q, ok := strings.CutPrefix(line, "Query:"); ok {
			q = strings.TrimSpace(q)
			i, seen := index[q]
			if !seen {
				i = len(trends)
				index[q] = i
				trends = append(trends, Trend{Query: q})
			}
			trends[i].Counts = make(map[int]int)
			current = i
			continue
		}
		if m := yearLine.FindStringSubmatch(line); m != nil && current >= 0 {
			year, _ := strconv.Atoi(m[1])
			n, _ := strconv.Atoi(m[2])
			trends[current].Counts[year] = n
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading summaries: %w", err)
	}
	return trends, nil
}

// ShortLabel is the compact name used for the i-th trend (Q1, Q2, ...).
func ShortLabel(i int) string { return fmt.Sprintf("Q%d", i+1) }

// TrendFrame renders trends as a wide table: one row per year, one column
// per query short label. Years missing from a query read as 0.
func TrendFrame(trends []Trend) *table.Frame {
	cols := []string{"Year"}
	years := make(map[int]bool)
	for i, t := range trends {
		cols = append(cols, ShortLabel(i))
		for y := range t.Counts {
			years[y] = true
		}
	}
	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	f := table.New(cols...)
	for _, y := range sorted {
		row := []string{strconv.Itoa(y)}
		for _, t := range trends {
			row = append(row, strconv.Itoa(t.Counts[y]))
		}
		f.AppendRow(row)
	}
	return f
}

// TrendLegend maps each short label to its full query text.
func TrendLegend(trends []Trend) *table.Frame {
	f := table.New("Label", "Query")
	for i, t := range trends {
		f.AppendRow([]string{ShortLabel(i), t.Query})
	}
	return f
}
