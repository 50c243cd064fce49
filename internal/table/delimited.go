// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

func readDelimited(path string, comma rune) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	grid, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromGrid(grid), nil
}

func writeDelimited(path string, comma rune, f *Frame) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(fh)
	w.Comma = comma
	if err := w.Write(f.Columns); err != nil {
		fh.Close()
		return err
	}
	if err := w.WriteAll(f.Rows); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// document is the JSON and YAML shape of a frame.
type document struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

func (d document) frame() *Frame {
	f := New(d.Columns...)
	for _, row := range d.Rows {
		f.AppendRow(row)
	}
	return f
}

func readJSON(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing JSON table: %w", err)
	}
	return d.frame(), nil
}

func writeJSON(path string, f *Frame) error {
	data, err := json.MarshalIndent(document{Columns: f.Columns, Rows: f.Rows}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON table: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func readYAML(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing YAML table: %w", err)
	}
	return d.frame(), nil
}

func writeYAML(path string, f *Frame) error {
	data, err := yaml.Marshal(document{Columns: f.Columns, Rows: f.Rows})
	if err != nil {
		return fmt.Errorf("marshaling YAML table: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
