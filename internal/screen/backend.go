// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Decision values.
const (
	Yes = "Yes"
	No  = "No"
)

const noEvidence = "No decisive evidence found"

// Decision is a backend's eligibility answer for one paper.
type Decision struct {
	Related       string `json:"Related"`
	Justification string `json:"Justification"`
}

// Backend asks a language model for an eligibility decision. Each provider
// (OpenAI, Anthropic) implements this interface.
type Backend interface {
	// Model names the model that answers, recorded with every result.
	Model() string
	Screen(ctx context.Context, criteria, prompt string) (Decision, error)
}

// decisionSchema is the JSON schema a decision must satisfy.
var decisionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"Related": map[string]any{
			"type": "string",
			"enum": []string{Yes, No},
		},
		"Justification": map[string]any{
			"type": "string",
		},
	},
	"required":             []string{"Related", "Justification"},
	"additionalProperties": false,
}

// parseDecision decodes a model reply. Markdown fences and text around the
// JSON object are ignored. Anything but "Yes" reads as No.
func parseDecision(raw string) (Decision, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Decision{}, fmt.Errorf("no JSON object in model reply: %q", clip(raw, 200))
	}
	var d Decision
	if err := json.Unmarshal([]byte(raw[start:end+1]), &d); err != nil {
		return Decision{}, fmt.Errorf("parsing model reply: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(d.Related), Yes) {
		d.Related = Yes
	} else {
		d.Related = No
	}
	d.Justification = strings.Join(strings.Fields(d.Justification), " ")
	if d.Justification == "" {
		d.Justification = noEvidence
	}
	return d, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
