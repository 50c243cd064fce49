// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table is the interchange format between pipeline stages: a
// two-dimensional table of string cells with named columns. Frames convert
// to and from types.Record and persist as xlsx, csv, tsv, json, yaml or
// SQLite files chosen by file extension.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/sysreview/pkg/types"
)

// ErrMissingColumn reports that a stage input lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Frame is an in-memory table. Every row has exactly len(Columns) cells.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty frame with the given columns.
func New(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of column name, or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the frame carries column name.
func (f *Frame) Has(name string) bool { return f.Index(name) >= 0 }

// Require returns an error wrapping ErrMissingColumn that lists every
// column in names the frame lacks.
func (f *Frame) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !f.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// AppendRow adds a row, padding or truncating it to the column count.
func (f *Frame) AppendRow(row []string) {
	out := make([]string, len(f.Columns))
	copy(out, row)
	f.Rows = append(f.Rows, out)
}

// FromRecords builds a frame with the canonical record columns followed by
// every extra column in order of first appearance.
func FromRecords(records []types.Record) *Frame {
	f := New(types.RecordColumns...)
	for _, r := range records {
		for _, e := range r.Extra {
			if !f.Has(e.Name) {
				f.Columns = append(f.Columns, e.Name)
			}
		}
	}
	for _, r := range records {
		row := make([]string, len(f.Columns))
		for i, c := range f.Columns {
			row[i] = r.Get(c)
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

// Records converts rows to records. Canonical columns the frame lacks read
// as empty; other columns become Extra fields in column order.
func (f *Frame) Records() []types.Record {
	out := make([]types.Record, len(f.Rows))
	for r, row := range f.Rows {
		var rec types.Record
		for i, c := range f.Columns {
			rec.Set(c, row[i])
		}
		out[r] = rec
	}
	return out
}
