package graph

import (
	"context"
	"encoding/json"
	"time"

	"github.com/reagentdev/reagent"
	"github.com/tmc/langchaingo/llms"
)

// structuredCall renders the stage's prompt template, invokes the model with
// the required output schema, and decodes the response into out. Hook events
// are fired around the call.
func (w *Workflow) structuredCall(
	ctx context.Context,
	stage reagent.Stage,
	templateName string,
	task string,
	data map[string]any,
	outputSchema map[string]any,
	out any,
) error {
	data["Format"] = formatSchema(outputSchema)

	prompt, err := w.prompts.Render(templateName, data)
	if err != nil {
		return err
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt),
		llms.TextParts(llms.ChatMessageTypeHuman, task),
	}

	w.hooks.FireBeforeModelCall(ctx, reagent.BeforeModelCallEvent{
		Stage:    stage,
		Model:    w.modelName,
		Messages: messages,
	})

	start := time.Now()
	err = w.model.GenerateStructured(ctx, messages, outputSchema, out)
	w.hooks.FireAfterModelCall(ctx, reagent.AfterModelCallEvent{
		Stage:    stage,
		Model:    w.modelName,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}

// formatSchema renders an output schema for inclusion in a prompt.
func formatSchema(outputSchema map[string]any) string {
	data, err := json.MarshalIndent(outputSchema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// marshalPayload serializes an event payload; history payloads are plain
// strings, so structured values are JSON-encoded.
func marshalPayload(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
