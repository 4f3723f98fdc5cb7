package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/reagentdev/reagent"
	"github.com/reagentdev/reagent/schema"
)

// execute invokes the tool selected by analyze. Tool-not-found and invocation
// failures are recorded as error events, never aborting the run — control
// returns to analyze for a fresh decision.
func (w *Workflow) execute(ctx context.Context, state *reagent.AgentState) {
	state.AppendEvent(reagent.StageExecute, reagent.KindRequest, marshalPayload(state.ToolInput))

	if state.Tool == "" {
		message := "no tool selected"
		state.AppendEvent(reagent.StageExecute, reagent.KindError, message)
		state.Error = message
		return
	}

	tool, ok := w.registry.Lookup(state.Tool)
	if !ok {
		message := fmt.Sprintf("Tool %s not found", state.Tool)
		state.AppendEvent(reagent.StageExecute, reagent.KindError, message)
		state.Error = message
		return
	}

	input := schema.Coerce(schema.Parse(tool.InputSchema()), state.ToolInput)

	w.hooks.FireBeforeToolCall(ctx, reagent.BeforeToolCallEvent{
		Tool:  state.Tool,
		Input: input,
	})

	start := time.Now()
	output, err := tool.Call(ctx, input)
	w.hooks.FireAfterToolCall(ctx, reagent.AfterToolCallEvent{
		Tool:     state.Tool,
		Input:    input,
		Output:   output,
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		message := fmt.Sprintf("Tool %s failed with error: %v", state.Tool, err)
		state.AppendEvent(reagent.StageExecute, reagent.KindError, message)
		state.Error = message
		return
	}

	state.AppendEvent(reagent.StageExecute, reagent.KindResponse, marshalPayload(output))
	state.Tool = ""
	state.ToolInput = nil
	state.ToolOutput = output
	state.Error = ""
}
