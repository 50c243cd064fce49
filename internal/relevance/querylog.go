// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// QueryLog records the query a stage ran and what it kept, so a filtered
// table can be traced back to the exact query text.
type QueryLog struct {
	RunID     string    `yaml:"run_id,omitempty"`
	Stage     int       `yaml:"stage"`
	Name      string    `yaml:"name"`
	Query     string    `yaml:"query"`
	Processed string    `yaml:"processed_query"`
	Input     int       `yaml:"input"`
	Related   int       `yaml:"related"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewQueryLog summarizes res for run runID.
func NewQueryLog(runID string, res StageResult) QueryLog {
	return QueryLog{
		RunID:     runID,
		Stage:     res.Stage.Number,
		Name:      res.Stage.Name,
		Query:     res.Stage.Query(),
		Processed: res.Stage.Processed(),
		Input:     len(res.All),
		Related:   len(res.Related),
		Timestamp: time.Now().UTC(),
	}
}

// WriteQueryLog saves a query log as YAML.
func WriteQueryLog(path string, ql QueryLog) error {
	data, err := yaml.Marshal(&ql)
	if err != nil {
		return fmt.Errorf("marshaling query log: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryLog loads a query log written by WriteQueryLog.
func ReadQueryLog(path string) (*QueryLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query log: %w", err)
	}
	var ql QueryLog
	if err := yaml.Unmarshal(data, &ql); err != nil {
		return nil, fmt.Errorf("parsing query log: %w", err)
	}
	return &ql, nil
}
