// Package tt provides shared test doubles for coordinator tests.
package tt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// MockModel - implements reagent.Model with queued responses
// -----------------------------------------------------------------------------

// MockModel is a configurable mock implementing reagent.Model. Text and
// structured responses are queued separately and consumed in order; every
// call's messages are captured for assertions.
type MockModel struct {
	textResponses []textResponse
	structured    []structuredResponse

	// CapturedMessages stores the messages passed to each call, text and
	// structured alike, in call order.
	CapturedMessages [][]llms.MessageContent

	// CapturedSchemas stores the output schema of each structured call.
	CapturedSchemas []map[string]any
}

type textResponse struct {
	content string
	err     error
}

type structuredResponse struct {
	value any
	err   error
}

// NewMockModel creates an empty MockModel. Calls beyond the queued responses
// return an error, which keeps runaway loops visible in tests.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddText queues a raw text response.
func (m *MockModel) AddText(content string) *MockModel {
	m.textResponses = append(m.textResponses, textResponse{content: content})
	return m
}

// AddTextError queues a text-call failure.
func (m *MockModel) AddTextError(err error) *MockModel {
	m.textResponses = append(m.textResponses, textResponse{err: err})
	return m
}

// AddStructured queues a structured response value. The value is marshaled
// through JSON into the caller's out parameter, mirroring the real adapter.
func (m *MockModel) AddStructured(value any) *MockModel {
	m.structured = append(m.structured, structuredResponse{value: value})
	return m
}

// AddStructuredError queues a structured-call failure.
func (m *MockModel) AddStructuredError(err error) *MockModel {
	m.structured = append(m.structured, structuredResponse{err: err})
	return m
}

// GenerateText implements reagent.Model.
func (m *MockModel) GenerateText(ctx context.Context, messages []llms.MessageContent) (string, error) {
	m.CapturedMessages = append(m.CapturedMessages, messages)
	if len(m.textResponses) == 0 {
		return "", fmt.Errorf("MockModel: no text responses queued")
	}
	next := m.textResponses[0]
	m.textResponses = m.textResponses[1:]
	return next.content, next.err
}

// GenerateStructured implements reagent.Model.
func (m *MockModel) GenerateStructured(
	ctx context.Context,
	messages []llms.MessageContent,
	outputSchema map[string]any,
	out any,
) error {
	m.CapturedMessages = append(m.CapturedMessages, messages)
	m.CapturedSchemas = append(m.CapturedSchemas, outputSchema)
	if len(m.structured) == 0 {
		return fmt.Errorf("MockModel: no structured responses queued")
	}
	next := m.structured[0]
	m.structured = m.structured[1:]
	if next.err != nil {
		return next.err
	}
	data, err := json.Marshal(next.value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// RemainingText returns how many text responses remain unconsumed.
func (m *MockModel) RemainingText() int { return len(m.textResponses) }

// -----------------------------------------------------------------------------
// MockTool - implements reagent.Tool
// -----------------------------------------------------------------------------

// MockTool is a configurable tool double capturing every input it is called
// with.
type MockTool struct {
	ToolName        string
	ToolDescription string
	Schema          map[string]any
	Output          string
	Err             error

	// CapturedInputs stores the (coerced) input of every call.
	CapturedInputs []any
}

// Name implements reagent.Tool.
func (t *MockTool) Name() string { return t.ToolName }

// Description implements reagent.Tool.
func (t *MockTool) Description() string { return t.ToolDescription }

// InputSchema implements reagent.Tool.
func (t *MockTool) InputSchema() map[string]any { return t.Schema }

// Call implements reagent.Tool.
func (t *MockTool) Call(ctx context.Context, input any) (string, error) {
	t.CapturedInputs = append(t.CapturedInputs, input)
	if t.Err != nil {
		return "", t.Err
	}
	return t.Output, nil
}

// ObjectSchema builds an object schema with string-typed properties, the
// common case in coordinator tests.
func ObjectSchema(required []string, propertyNames ...string) map[string]any {
	props := make(map[string]any, len(propertyNames))
	for _, name := range propertyNames {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
