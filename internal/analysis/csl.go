// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sysreview/internal/dedup"
	"github.com/pdiddy/sysreview/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	Note           string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(records []types.Record, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(i, r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return nil
}

func toCSLItem(i int, r types.Record) CSLItem {
	item := CSLItem{
		ID:             fmt.Sprintf("paper-%d", i+1),
		Type:           cslType(r.DocumentIdentifier),
		Title:          r.Title,
		ContainerTitle: r.Journal,
		Abstract:       r.Abstract,
		Keyword:        r.Keywords,
		DOI:            dedup.NormalizeDOI(r.DOI),
		Note:           r.Get(types.ColClassification),
	}
	if item.DOI != "" {
		item.ID = item.DOI
	}
	for _, a := range r.Authors() {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if y, ok := dedup.ParseYear(r.Year); ok {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

func cslType(docID string) string {
	switch strings.ToLower(strings.TrimSpace(docID)) {
	case "journal":
		return "article-journal"
	case "conf":
		return "paper-conference"
	case "book":
		return "book"
	}
	return "article"
}

// parseAuthorName splits a name into CSL family and given parts. "Family,
// Given" splits on the comma; otherwise the last word is the family name.
// Single-word names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
