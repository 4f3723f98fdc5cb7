package reagent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Step records one completed iteration of the ReAct loop: which tool was
// called with what input, why, and what was observed. Steps are append-only;
// the ordered sequence is the loop's scratchpad.
type Step struct {
	Tool        string
	ToolInput   any
	Reasoning   string
	Observation string
}

// ScratchpadEmpty is rendered when no steps have been recorded yet.
const ScratchpadEmpty = "No previous steps."

// FormatScratchpad renders prior steps into a text block for the next model
// prompt. Rendering is pure and deterministic: the same step sequence always
// produces identical output, since it is re-run every iteration.
func FormatScratchpad(steps []Step) string {
	if len(steps) == 0 {
		return ScratchpadEmpty
	}

	var sb strings.Builder
	for i, step := range steps {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Step %d:\n", i+1)
		fmt.Fprintf(&sb, "Reasoning: %s\n", orDefault(step.Reasoning, "No reasoning provided"))
		fmt.Fprintf(&sb, "Tool: %s\n", orDefault(step.Tool, "Unknown tool"))
		fmt.Fprintf(&sb, "Input: %s\n", marshalInput(step.ToolInput))
		fmt.Fprintf(&sb, "Result: %s\n", orDefault(step.Observation, "No result"))
	}
	return sb.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// marshalInput serializes a tool input for display. encoding/json sorts map
// keys, which keeps the rendering stable across runs.
func marshalInput(input any) string {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Sprintf("%v", input)
	}
	return string(data)
}
