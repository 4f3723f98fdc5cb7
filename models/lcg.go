// Package models adapts langchaingo chat models to the reagent.Model
// interface, adding JSON-mode structured output with schema validation.
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reagentdev/reagent"
	"github.com/reagentdev/reagent/schema"
	"github.com/tmc/langchaingo/llms"
)

// LCG wraps an llms.Model and implements reagent.Model. Any langchaingo
// provider (OpenAI, Anthropic, Ollama, ...) can back it.
//
//	llm, _ := openai.New(openai.WithToken(apiKey), openai.WithModel("gpt-4o"))
//	model := models.NewLCG(llm).WithModelName("gpt-4o")
type LCG struct {
	model     llms.Model
	modelName string
}

// NewLCG creates a new adapter wrapping the given llms.Model.
func NewLCG(model llms.Model) *LCG {
	return &LCG{model: model}
}

// WithModelName sets the model name reported in events and errors.
// Returns the adapter for chaining.
func (m *LCG) WithModelName(name string) *LCG {
	m.modelName = name
	return m
}

// Unwrap returns the underlying llms.Model.
func (m *LCG) Unwrap() llms.Model {
	return m.model
}

// GenerateText implements reagent.Model.
func (m *LCG) GenerateText(ctx context.Context, messages []llms.MessageContent) (string, error) {
	response, err := m.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", reagent.ErrModelInvocation, m.modelName, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: %s: empty response", reagent.ErrModelInvocation, m.modelName)
	}
	return response.Choices[0].Content, nil
}

// GenerateStructured implements reagent.Model. The call runs in JSON mode;
// the response is decoded, validated against outputSchema, then unmarshaled
// into out. A response that is valid JSON but violates the schema is an
// error — the caller decides whether to retry or record it.
func (m *LCG) GenerateStructured(
	ctx context.Context,
	messages []llms.MessageContent,
	outputSchema map[string]any,
	out any,
) error {
	response, err := m.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", reagent.ErrModelInvocation, m.modelName, err)
	}
	if len(response.Choices) == 0 {
		return fmt.Errorf("%w: %s: empty response", reagent.ErrModelInvocation, m.modelName)
	}

	return DecodeStructured(response.Choices[0].Content, outputSchema, out)
}

// DecodeStructured extracts a JSON object from raw model output, validates it
// against outputSchema (when non-nil), and unmarshals it into out.
func DecodeStructured(raw string, outputSchema map[string]any, out any) error {
	text := strings.TrimSpace(raw)
	if !json.Valid([]byte(text)) {
		extracted, ok := reagent.ExtractJSONObject(text)
		if !ok {
			return fmt.Errorf("%w: no JSON object in structured response", reagent.ErrInvalidJSON)
		}
		text = extracted
	}

	if outputSchema != nil {
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			return fmt.Errorf("%w: %v", reagent.ErrInvalidJSON, err)
		}
		if err := schema.Parse(outputSchema).Validate(decoded); err != nil {
			return fmt.Errorf("%w: structured response rejected: %v", reagent.ErrInvalidJSON, err)
		}
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", reagent.ErrInvalidJSON, err)
	}
	return nil
}
