package graph

import (
	"context"

	"github.com/reagentdev/reagent"
)

// analysis is the analyze stage's structured model response: an error, an
// exhausted flag, or a selected tool with input and plan.
type analysis struct {
	Error         string `json:"error,omitempty"`
	Exhausted     bool   `json:"exhausted,omitempty"`
	SelectedTool  string `json:"selectedTool,omitempty"`
	ToolInput     any    `json:"toolInput,omitempty"`
	Reasoning     string `json:"reasoning"`
	ExecutionPlan string `json:"executionPlan"`
}

var analysisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"error": map[string]any{
			"type":        "string",
			"description": "An error message if something went wrong",
		},
		"exhausted": map[string]any{
			"type":        "boolean",
			"description": "True when no more tool calls are required or possible",
		},
		"selectedTool": map[string]any{
			"type":        "string",
			"description": "The name of the tool to use",
		},
		"toolInput": map[string]any{
			"description": "The input to the tool, encoded in the structured schema expected by the tool",
		},
		"reasoning": map[string]any{
			"type":        "string",
			"description": "Why the tool was selected and how it will be used",
		},
		"executionPlan": map[string]any{
			"type":        "string",
			"description": "The steps that will be taken to execute the tool",
		},
	},
	"required": []string{"reasoning", "executionPlan"},
}

// analyze asks the model for the next tool decision. Model failures are
// recorded as error events; the graph continues either way, and the executor
// handles a missing selection on the next hop.
func (w *Workflow) analyze(ctx context.Context, state *reagent.AgentState) {
	state.AppendEvent(reagent.StageAnalyze, reagent.KindRequest, state.Task)

	var response analysis
	err := w.structuredCall(ctx, reagent.StageAnalyze, "task_analyzer", state.Task, map[string]any{
		"Task":    state.Task,
		"History": state.RenderHistory(),
		"Tools":   w.registry.Catalog(),
	}, analysisSchema, &response)

	if err != nil {
		state.AppendEvent(reagent.StageAnalyze, reagent.KindError, err.Error())
		state.Error = err.Error()
		return
	}

	if response.Error != "" {
		state.AppendEvent(reagent.StageAnalyze, reagent.KindError, response.Error)
		state.Error = response.Error
		return
	}

	state.AppendEvent(reagent.StageAnalyze, reagent.KindResponse, marshalPayload(map[string]any{
		"selectedTool":  response.SelectedTool,
		"toolInput":     response.ToolInput,
		"reasoning":     response.Reasoning,
		"executionPlan": response.ExecutionPlan,
	}))

	state.Tool = response.SelectedTool
	state.ToolInput = response.ToolInput
	state.ToolingComplete = response.Exhausted
	state.Exhausted = response.Exhausted
}
