// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// DedupConfig holds settings for the deduplication stage.
type DedupConfig struct {
	// FuzzyThreshold is the minimum token-set similarity (0-100) at which two
	// titles in the same block are treated as duplicates (default 95).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`

	// YearWindow is the tolerated publication-year skew for fuzzy blocking (default 1).
	YearWindow int `json:"year_window" yaml:"year_window" mapstructure:"year_window"`

	// PreferredSources ranks source databases for survivor selection, best first.
	PreferredSources []string `json:"preferred_sources" yaml:"preferred_sources" mapstructure:"preferred_sources"`

	// TitlesToRemove drops kept rows whose title equals one of these exactly.
	TitlesToRemove []string `json:"titles_to_remove" yaml:"titles_to_remove" mapstructure:"titles_to_remove"`

	// AbstractsToRemove drops kept rows whose abstract equals one of these exactly.
	AbstractsToRemove []string `json:"abstracts_to_remove" yaml:"abstracts_to_remove" mapstructure:"abstracts_to_remove"`

	// ExcludedDocumentTypes drops kept rows whose document identifier matches
	// case-insensitively (default "book").
	ExcludedDocumentTypes []string `json:"excluded_document_types" yaml:"excluded_document_types" mapstructure:"excluded_document_types"`
}

// Validate checks the dedup settings.
func (c DedupConfig) Validate() error {
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("dedup: fuzzy_threshold %v out of range [0,100]", c.FuzzyThreshold)
	}
	if c.YearWindow < 0 {
		return fmt.Errorf("dedup: year_window must not be negative")
	}
	return nil
}

// StageQuery is one named relevance query.
type StageQuery struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Query string `json:"query" yaml:"query" mapstructure:"query"`
}

// RelevanceConfig holds the staged relevance queries, broadest first.
type RelevanceConfig struct {
	Stages []StageQuery `json:"stages" yaml:"stages" mapstructure:"stages"`
}

// Validate checks that every stage carries a query.
func (c RelevanceConfig) Validate() error {
	if len(c.Stages) == 0 {
		return fmt.Errorf("relevance: no stages configured")
	}
	for i, s := range c.Stages {
		if strings.TrimSpace(s.Query) == "" {
			return fmt.Errorf("relevance: stage %d has an empty query", i+1)
		}
	}
	return nil
}

// ClassifyMode selects the record text a category rule is evaluated against.
type ClassifyMode string

const (
	ModeTitle    ClassifyMode = "title"
	ModeAbstract ClassifyMode = "abstract"
	ModeBoth     ClassifyMode = "both"
)

// ParseClassifyMode normalizes s; the empty string selects ModeBoth.
func ParseClassifyMode(s string) (ClassifyMode, error) {
	switch m := ClassifyMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeBoth, nil
	case ModeTitle, ModeAbstract, ModeBoth:
		return m, nil
	default:
		return "", fmt.Errorf("unknown classification mode %q (want title, abstract or both)", s)
	}
}

// CategoryRule maps a category label to a boolean query.
type CategoryRule struct {
	Category string `json:"category" yaml:"category" mapstructure:"category"`
	Query    string `json:"query" yaml:"query" mapstructure:"query"`
}

// ClassifierConfig holds the category rules and tie-break order.
type ClassifierConfig struct {
	// Rules are evaluated in order; rules sharing a category are OR-combined.
	Rules []CategoryRule `json:"rules" yaml:"rules" mapstructure:"rules"`

	// Priority orders categories for tie-breaks, best first. Categories not
	// listed sort after all listed ones.
	Priority []string `json:"priority" yaml:"priority" mapstructure:"priority"`

	// Mode is title, abstract or both (default both).
	Mode ClassifyMode `json:"mode" yaml:"mode" mapstructure:"mode"`
}

// Validate checks the rule list and mode.
func (c ClassifierConfig) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("classifier: no category rules configured")
	}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Category) == "" {
			return fmt.Errorf("classifier: rule %d has an empty category", i+1)
		}
		if strings.TrimSpace(r.Query) == "" {
			return fmt.Errorf("classifier: rule %d (%s) has an empty query", i+1, r.Category)
		}
	}
	if _, err := ParseClassifyMode(string(c.Mode)); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	return nil
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the backend: "openai" or "anthropic".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the AI model identifier (e.g. "gpt-4.1-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts for failed API calls (default 1).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout bounds a single API request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ScreeningConfig holds settings for full-text LLM screening.
type ScreeningConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// PDFDir is the folder of candidate PDFs; the file stem is the paper id.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir" mapstructure:"pdf_dir"`

	// MaxTextLength truncates extracted text, in characters (default 150000).
	MaxTextLength int `json:"max_text_length" yaml:"max_text_length" mapstructure:"max_text_length"`

	// RequestDelay is the minimum spacing between API calls (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// Concurrency bounds the number of papers screened at once (default 1).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// Criteria is the system prompt stating the eligibility criteria.
	Criteria string `json:"criteria" yaml:"criteria" mapstructure:"criteria"`
}

// Validate checks the screening settings.
func (c ScreeningConfig) Validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("screening: unknown provider %q (want openai or anthropic)", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("screening: model is required")
	}
	if strings.TrimSpace(c.Criteria) == "" {
		return fmt.Errorf("screening: criteria prompt is required")
	}
	return nil
}

// ConsolidationConfig holds settings for merging bibliographic exports.
type ConsolidationConfig struct {
	// SourcesDir contains one sub-folder per database export (e.g. "WoS").
	SourcesDir string `json:"sources_dir" yaml:"sources_dir" mapstructure:"sources_dir"`

	// Sources lists the sub-folders to read; the folder name becomes Source.
	Sources []string `json:"sources" yaml:"sources" mapstructure:"sources"`

	// Extensions lists accepted export file extensions.
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`

	// DocumentTypes maps a standard document identifier to the raw type tags
	// that collapse into it (compared case-insensitively).
	DocumentTypes map[string][]string `json:"document_types" yaml:"document_types" mapstructure:"document_types"`
}

// AnalysisConfig holds settings for summary statistics.
type AnalysisConfig struct {
	StartYear  int `json:"start_year" yaml:"start_year" mapstructure:"start_year"`
	EndYear    int `json:"end_year" yaml:"end_year" mapstructure:"end_year"`
	TopSources int `json:"top_sources" yaml:"top_sources" mapstructure:"top_sources"`
}

// OutputConfig controls where and how stage tables are persisted.
type OutputConfig struct {
	// ResultsDir receives every stage output (default "results").
	ResultsDir string `json:"results_dir" yaml:"results_dir" mapstructure:"results_dir"`

	// Format is the table file extension: xlsx, csv, tsv, json, yaml or db.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is debug, info, warn or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is the path of the .prom file written after each command;
	// empty disables the export.
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Consolidation ConsolidationConfig `json:"consolidation" yaml:"consolidation" mapstructure:"consolidation"`
	Dedup         DedupConfig         `json:"dedup" yaml:"dedup" mapstructure:"dedup"`
	Relevance     RelevanceConfig     `json:"relevance" yaml:"relevance" mapstructure:"relevance"`
	Classifier    ClassifierConfig    `json:"classifier" yaml:"classifier" mapstructure:"classifier"`
	Screening     ScreeningConfig     `json:"screening" yaml:"screening" mapstructure:"screening"`
	Analysis      AnalysisConfig      `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Output        OutputConfig        `json:"output" yaml:"output" mapstructure:"output"`
	Log           LogConfig           `json:"log" yaml:"log" mapstructure:"log"`
	Metrics       MetricsConfig       `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}
