// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sysreview pipeline.
// Every stage reads and writes tables of Records; annotations added by a stage
// travel as extra named columns so later stages never lose earlier output.
package types

import "strings"

// Canonical column names of the record table.
const (
	ColYear               = "Year"
	ColTitle              = "Title"
	ColAbstract           = "Abstract"
	ColKeywords           = "Keywords"
	ColAuthor             = "Author"
	ColDocumentIdentifier = "Document Identifier"
	ColJournal            = "Journal"
	ColDOI                = "DOI"
	ColSource             = "Source"
)

// Annotation columns added by pipeline stages.
const (
	ColDuplicateFlag  = "DuplicateFlag"
	ColKeep           = "Keep"
	ColDOINormalized  = "DOI_norm"
	ColTitleFP        = "Title_fp"
	ColYearNumeric    = "Year_num"
	ColFirstAuthor    = "FirstAuthorLast"
	ColSurvivorScore  = "SurvivorScore"
	ColRelated        = "Related"
	ColClassification = "Classification"
)

// Related annotation values.
const (
	Related    = "Related"
	NotRelated = "Not Related"
)

// Unclassified is the label given to a record that matches no category rule.
const Unclassified = "Unclassified"

// RecordColumns lists the canonical columns in table order.
var RecordColumns = []string{
	ColYear, ColTitle, ColAbstract, ColKeywords, ColAuthor,
	ColDocumentIdentifier, ColJournal, ColDOI, ColSource,
}

// Field is a named cell that is not part of the canonical record schema.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Record is one bibliographic entry. Fields hold raw cell text; a missing
// column reads as the empty string.
type Record struct {
	Year               string `json:"year" yaml:"year"`
	Title              string `json:"title" yaml:"title"`
	Abstract           string `json:"abstract" yaml:"abstract"`
	Keywords           string `json:"keywords" yaml:"keywords"`
	Author             string `json:"author" yaml:"author"`
	DocumentIdentifier string `json:"document_identifier" yaml:"document_identifier"`
	Journal            string `json:"journal" yaml:"journal"`
	DOI                string `json:"doi" yaml:"doi"`
	Source             string `json:"source" yaml:"source"`

	// Extra carries non-canonical columns in their original order.
	Extra []Field `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Get returns the value of the named column.
func (r Record) Get(column string) string {
	switch column {
	case ColYear:
		return r.Year
	case ColTitle:
		return r.Title
	case ColAbstract:
		return r.Abstract
	case ColKeywords:
		return r.Keywords
	case ColAuthor:
		return r.Author
	case ColDocumentIdentifier:
		return r.DocumentIdentifier
	case ColJournal:
		return r.Journal
	case ColDOI:
		return r.DOI
	case ColSource:
		return r.Source
	}
	for _, f := range r.Extra {
		if f.Name == column {
			return f.Value
		}
	}
	return ""
}

// Set assigns the named column. Unknown columns are stored in Extra,
// replacing an existing value of the same name.
func (r *Record) Set(column, value string) {
	switch column {
	case ColYear:
		r.Year = value
	case ColTitle:
		r.Title = value
	case ColAbstract:
		r.Abstract = value
	case ColKeywords:
		r.Keywords = value
	case ColAuthor:
		r.Author = value
	case ColDocumentIdentifier:
		r.DocumentIdentifier = value
	case ColJournal:
		r.Journal = value
	case ColDOI:
		r.DOI = value
	case ColSource:
		r.Source = value
	default:
		for i := range r.Extra {
			if r.Extra[i].Name == column {
				r.Extra[i].Value = value
				return
			}
		}
		r.Extra = append(r.Extra, Field{Name: column, Value: value})
	}
}

// With returns a copy of r with column set to value. The receiver's Extra
// slice is not shared with the copy.
func (r Record) With(column, value string) Record {
	out := r
	out.Extra = append([]Field(nil), r.Extra...)
	out.Set(column, value)
	return out
}

// Authors splits the semicolon-joined author field into trimmed names.
func (r Record) Authors() []string {
	var names []string
	for _, a := range strings.Split(r.Author, ";") {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	return names
}

// RelevanceText is the text a relevance query is evaluated against.
func (r Record) RelevanceText() string {
	return r.Title + " " + r.Abstract + " " + r.Keywords
}
