package graph

import (
	"context"

	"github.com/reagentdev/reagent"
)

// reviewResponse is the review stage's structured model response.
type reviewResponse struct {
	Error        string `json:"error,omitempty"`
	Score        int    `json:"score"`
	Reasoning    string `json:"reasoning"`
	Improvements string `json:"improvements,omitempty"`
}

var reviewSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"error": map[string]any{
			"type":        "string",
			"description": "An error message if something went wrong",
		},
		"score": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     10,
			"description": "A score from 0 to 10 indicating how good the answer is",
		},
		"reasoning": map[string]any{
			"type":        "string",
			"description": "Why the answer is good or bad",
		},
		"improvements": map[string]any{
			"type":        "string",
			"description": "Suggested ways to improve the answer",
		},
	},
	"required": []string{"score", "reasoning"},
}

const noAnswer = "No answer provided"

// review scores the suggested answer 0-10. A model failure is recorded as an
// error event and leaves the score at zero, which keeps the run on the retry
// edge until the retry budget is spent.
func (w *Workflow) review(ctx context.Context, state *reagent.AgentState) {
	suggested := state.SuggestedAnswer
	if suggested == "" {
		suggested = noAnswer
	}
	state.AppendEvent(reagent.StageReview, reagent.KindRequest, suggested)

	var response reviewResponse
	err := w.structuredCall(ctx, reagent.StageReview, "task_review", state.Task, map[string]any{
		"Task":            state.Task,
		"History":         state.RenderHistory(),
		"SuggestedAnswer": suggested,
	}, reviewSchema, &response)

	if err != nil {
		state.AppendEvent(reagent.StageReview, reagent.KindError, err.Error())
		state.Error = err.Error()
		state.Score = 0
		return
	}

	if response.Error != "" {
		state.AppendEvent(reagent.StageReview, reagent.KindError, response.Error)
		state.Error = response.Error
		state.Score = 0
		return
	}

	state.AppendEvent(reagent.StageReview, reagent.KindResponse, marshalPayload(map[string]any{
		"score":        response.Score,
		"reasoning":    response.Reasoning,
		"improvements": response.Improvements,
	}))
	state.Score = response.Score
	state.Improvements = response.Improvements
}
