package graph

import (
	"context"

	"github.com/reagentdev/reagent"
)

// answerResponse is the answer stage's structured model response.
type answerResponse struct {
	Error  string `json:"error,omitempty"`
	Answer string `json:"answer,omitempty"`
}

var answerSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"error": map[string]any{
			"type":        "string",
			"description": "An error message if something went wrong",
		},
		"answer": map[string]any{
			"type":        "string",
			"description": "The answer to the task",
		},
	},
}

// answer drafts a suggested answer from the accumulated history. A model
// failure or an empty draft is recorded as an error event rather than
// raising; review then scores whatever is (or isn't) there.
func (w *Workflow) answer(ctx context.Context, state *reagent.AgentState) {
	state.AppendEvent(reagent.StageAnswer, reagent.KindRequest, state.Task)

	var response answerResponse
	err := w.structuredCall(ctx, reagent.StageAnswer, "task_answer", state.Task, map[string]any{
		"Task":    state.Task,
		"History": state.RenderHistory(),
	}, answerSchema, &response)

	if err != nil {
		state.AppendEvent(reagent.StageAnswer, reagent.KindError, err.Error())
		state.Error = err.Error()
		return
	}

	if response.Answer == "" {
		reason := response.Error
		if reason == "" {
			reason = "no answer drafted"
		}
		state.AppendEvent(reagent.StageAnswer, reagent.KindError, reason)
		state.Error = reason
		return
	}

	state.AppendEvent(reagent.StageAnswer, reagent.KindResponse, marshalPayload(map[string]any{
		"answer": response.Answer,
	}))
	state.SuggestedAnswer = response.Answer
}
