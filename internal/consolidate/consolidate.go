// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consolidate merges bibliographic exports from several databases
// into one record table. Each configured source is a folder of BibTeX, RIS
// or PubMed (MEDLINE) files; the folder name becomes the record's Source.
package consolidate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/sysreview/pkg/types"
)

// Format identifies an export file syntax.
type Format string

const (
	FormatBibTeX  Format = "bibtex"
	FormatRIS     Format = "ris"
	FormatPubMed  Format = "pubmed"
	FormatUnknown Format = ""
)

// Detect inspects file content and reports its format.
func Detect(content string) Format {
	content = strings.TrimLeft(strings.TrimPrefix(content, "\ufeff"), " \t\r\n")
	switch {
	case strings.HasPrefix(content, "@"):
		return FormatBibTeX
	case risStart.MatchString(content):
		return FormatRIS
	case strings.HasPrefix(content, "PMID-"):
		return FormatPubMed
	}
	return FormatUnknown
}

// Parse extracts records from one export file's content.
func Parse(content, source string) ([]types.Record, Format) {
	content = strings.TrimPrefix(content, "\ufeff")
	format := Detect(content)
	var out []types.Record
	switch format {
	case FormatBibTeX:
		for _, e := range parseBibTeX(content) {
			out = append(out, bibRecord(e, source))
		}
	case FormatRIS:
		for _, lines := range splitRIS(content) {
			t := parseTagged(lines)
			if len(t) == 0 {
				continue
			}
			out = append(out, risRecord(t, source))
		}
	case FormatPubMed:
		for _, lines := range splitBlank(content) {
			t := parseTagged(lines)
			if len(t) == 0 {
				continue
			}
			out = append(out, pubmedRecord(t, source))
		}
	}
	return out, format
}

// Stats summarizes one consolidation run.
type Stats struct {
	Files      int
	Skipped    int // files with an unrecognized format
	Entries    int
	Duplicates int // entries repeating an earlier (title, DOI) pair
	Records    int
	PerSource  map[string]int
}

// Result holds the consolidated records and run statistics.
type Result struct {
	Records []types.Record
	Stats   Stats
}

// Option configures a Consolidator.
type Option func(*Consolidator)

// WithLogger sets the logger used for per-file progress.
func WithLogger(l *zap.Logger) Option {
	return func(c *Consolidator) { c.log = l }
}

// Consolidator reads source folders into records.
type Consolidator struct {
	cfg     types.ConsolidationConfig
	docType map[string]string
	log     *zap.Logger
}

// New creates a Consolidator for cfg.
func New(cfg types.ConsolidationConfig, opts ...Option) (*Consolidator, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("consolidation: no sources configured")
	}
	c := &Consolidator{cfg: cfg, docType: make(map[string]string), log: zap.NewNop()}
	for standard, raws := range cfg.DocumentTypes {
		for _, raw := range raws {
			c.docType[strings.ToLower(strings.TrimSpace(raw))] = standard
		}
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// StandardDocumentType maps a raw type tag to its standard identifier,
// returning the input unchanged when no mapping applies.
func (c *Consolidator) StandardDocumentType(raw string) string {
	if std, ok := c.docType[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return std
	}
	return raw
}

func (c *Consolidator) acceptExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.cfg.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Run reads every configured source folder in order. Files within a folder
// are read in name order. The first entry with a given (title, DOI) pair
// wins; later repeats are skipped. Missing folders are logged and skipped.
func (c *Consolidator) Run() (Result, error) {
	res := Result{Stats: Stats{PerSource: make(map[string]int)}}
	seen := make(map[[2]string]bool)

	for _, source := range c.cfg.Sources {
		dir := filepath.Join(c.cfg.SourcesDir, source)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				c.log.Warn("source folder missing", zap.String("source", source), zap.String("dir", dir))
				continue
			}
			return Result{}, fmt.Errorf("reading source folder %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, de := range entries {
			if de.IsDir() || !c.acceptExt(de.Name()) {
				continue
			}
			path := filepath.Join(dir, de.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return Result{}, fmt.Errorf("reading %s: %w", path, err)
			}
			res.Stats.Files++

			records, format := Parse(string(data), source)
			if format == FormatUnknown {
				res.Stats.Skipped++
				c.log.Warn("unrecognized export format", zap.String("file", path))
				continue
			}
			c.log.Debug("parsed export",
				zap.String("file", path), zap.String("format", string(format)), zap.Int("entries", len(records)))

			for _, r := range records {
				res.Stats.Entries++
				key := [2]string{r.Title, r.DOI}
				if seen[key] {
					res.Stats.Duplicates++
					continue
				}
				seen[key] = true
				r.DocumentIdentifier = c.StandardDocumentType(r.DocumentIdentifier)
				res.Records = append(res.Records, r)
				res.Stats.PerSource[source]++
			}
		}
	}
	res.Stats.Records = len(res.Records)
	c.log.Info("consolidated",
		zap.Int("files", res.Stats.Files),
		zap.Int("entries", res.Stats.Entries),
		zap.Int("records", res.Stats.Records))
	return res, nil
}
