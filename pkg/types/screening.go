// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScreeningResult is the eligibility decision for one full-text PDF.
type ScreeningResult struct {
	// Model is the AI model that produced the decision.
	Model string `json:"model" yaml:"model"`

	// PaperID is the PDF file name without extension.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Related is "Yes" when every eligibility criterion is met, otherwise "No".
	Related string `json:"related" yaml:"related"`

	// Justification is a one-sentence reason citing evidence from the text.
	Justification string `json:"justification" yaml:"justification"`
}

// Screening table columns.
const (
	ColModelUsed     = "Model Used"
	ColPaperID       = "paper_id"
	ColJustification = "Justification"
)

// ScreeningColumns lists the screening table columns in order.
var ScreeningColumns = []string{ColModelUsed, ColPaperID, ColRelated, ColJustification}
