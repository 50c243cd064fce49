// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat reports a table path whose extension has no codec.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Formats lists the accepted table file extensions, without the dot.
var Formats = []string{"xlsx", "csv", "tsv", "json", "yaml", "yml", "db", "sqlite"}

// Path joins dir and base and appends the extension for format.
func Path(dir, base, format string) string {
	return filepath.Join(dir, base+"."+strings.TrimPrefix(format, "."))
}

// ValidFormat reports whether format names a supported extension.
func ValidFormat(format string) bool {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Read loads a table from path, choosing the codec by extension.
func Read(path string) (*Frame, error) {
	var (
		f   *Frame
		err error
	)
	switch ext(path) {
	case "xlsx":
		f, err = readXLSX(path)
	case "csv":
		f, err = readDelimited(path, ',')
	case "tsv":
		f, err = readDelimited(path, '\t')
	case "json":
		f, err = readJSON(path)
	case "yaml", "yml":
		f, err = readYAML(path)
	case "db", "sqlite":
		f, err = readSQLite(path)
	default:
		return nil, fmt.Errorf("reading %s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return f, nil
}

// Write saves f to path, choosing the codec by extension and creating the
// parent directory. An existing file is replaced.
func Write(path string, f *Frame) error {
	e := ext(path)
	if !ValidFormat(e) {
		return fmt.Errorf("writing %s: %w", path, ErrUnsupportedFormat)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	var err error
	switch e {
	case "xlsx":
		err = writeXLSX(path, f)
	case "csv":
		err = writeDelimited(path, ',', f)
	case "tsv":
		err = writeDelimited(path, '\t', f)
	case "json":
		err = writeJSON(path, f)
	case "yaml", "yml":
		err = writeYAML(path, f)
	case "db", "sqlite":
		err = writeSQLite(path, f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// fromGrid builds a frame from a header row and data rows, padding short
// rows. Blank rows are dropped.
func fromGrid(grid [][]string) *Frame {
	if len(grid) == 0 {
		return New()
	}
	f := New(grid[0]...)
	for _, row := range grid[1:] {
		if isBlank(row) {
			continue
		}
		f.AppendRow(row)
	}
	return f
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
