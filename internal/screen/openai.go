// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIBackend screens papers through the OpenAI Responses API with a
// strict JSON schema for the decision.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend creates a backend for model. Extra request options (base
// URL, HTTP client, retries) are applied after the API key.
func NewOpenAIBackend(apiKey, model string, opts ...option.RequestOption) *OpenAIBackend {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIBackend{client: openai.NewClient(all...), model: model}
}

// Model implements Backend.
func (b *OpenAIBackend) Model() string { return b.model }

// Screen implements Backend.
func (b *OpenAIBackend) Screen(ctx context.Context, criteria, prompt string) (Decision, error) {
	resp, err := b.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        shared.ResponsesModel(b.model),
		Instructions: openai.String(criteria),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Temperature: openai.Float(0),
		TopP:        openai.Float(1),
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema("screening_decision", decisionSchema),
		},
	})
	if err != nil {
		return Decision{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	return parseDecision(resp.OutputText())
}
