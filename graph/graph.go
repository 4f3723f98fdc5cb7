// Package graph implements the five-stage agent workflow: analyze chooses the
// next tool action (or declares tooling complete), execute invokes it, answer
// drafts a response from the accumulated history, review scores the draft,
// and finalize publishes it. Conditional edges drive the cycle:
//
//	start → analyze
//	analyze → execute        (while tooling is incomplete)
//	analyze → answer         (once tooling is complete)
//	execute → analyze        (always loop back for the next decision)
//	answer → review          (always)
//	review → finalize        (score ≥ threshold, or retries exhausted)
//	review → analyze         (otherwise: revisit tool use, redraft)
//	finalize → end
//
// Every stage's model-call failure is caught and recorded as an error history
// event; the graph continues toward its default successor rather than
// aborting the run.
package graph

import (
	"context"
	"fmt"

	"github.com/reagentdev/reagent"
	"github.com/reagentdev/reagent/hooks"
	"github.com/reagentdev/reagent/prompts"
)

const (
	// DefaultScoreThreshold is the review score at or above which the draft
	// answer is accepted.
	DefaultScoreThreshold = 8

	// DefaultMaxReviewRetries bounds the review → analyze retry edge. When
	// exhausted the workflow finalizes with the best-scored answer so far.
	DefaultMaxReviewRetries = 3

	// DefaultMaxToolCycles bounds the analyze → execute → analyze cycle.
	// When exceeded, tooling is forced complete and the workflow proceeds to
	// drafting an answer from whatever the history holds.
	DefaultMaxToolCycles = 20
)

// Workflow is the five-stage coordinator. Construct with New, configure with
// the With* methods, then call Run once per task. A Workflow holds no per-run
// state and is safe to share across concurrent task runs.
type Workflow struct {
	model            reagent.Model
	registry         *reagent.Registry
	prompts          *prompts.Library
	hooks            *hooks.Registry
	scoreThreshold   int
	maxReviewRetries int
	maxToolCycles    int
	modelName        string
}

// New creates a Workflow with default gates.
func New(model reagent.Model, registry *reagent.Registry, lib *prompts.Library) *Workflow {
	return &Workflow{
		model:            model,
		registry:         registry,
		prompts:          lib,
		scoreThreshold:   DefaultScoreThreshold,
		maxReviewRetries: DefaultMaxReviewRetries,
		maxToolCycles:    DefaultMaxToolCycles,
	}
}

// WithScoreThreshold sets the review quality gate (0-10).
func (w *Workflow) WithScoreThreshold(n int) *Workflow {
	if n >= 0 && n <= 10 {
		w.scoreThreshold = n
	}
	return w
}

// WithMaxReviewRetries sets how many times review may send the run back to
// analyze before finalizing with the best answer so far.
func (w *Workflow) WithMaxReviewRetries(n int) *Workflow {
	if n >= 0 {
		w.maxReviewRetries = n
	}
	return w
}

// WithMaxToolCycles bounds the analyze/execute cycle. Values below 1 are
// ignored.
func (w *Workflow) WithMaxToolCycles(n int) *Workflow {
	if n >= 1 {
		w.maxToolCycles = n
	}
	return w
}

// WithHooks sets the lifecycle hook registry.
func (w *Workflow) WithHooks(h *hooks.Registry) *Workflow {
	w.hooks = h
	return w
}

// WithModelName sets the model name reported in events.
func (w *Workflow) WithModelName(name string) *Workflow {
	w.modelName = name
	return w
}

// Run executes the workflow for one task. The returned state carries the
// final AgentResponse and the complete event history. An error is returned
// only for context cancellation; stage-level failures are folded into the
// history and the workflow runs to a terminal answer.
func (w *Workflow) Run(ctx context.Context, task string) (*reagent.AgentState, error) {
	state := reagent.NewAgentState(task)

	current := reagent.StageAnalyze
	w.hooks.FireStageTransition(ctx, reagent.StageTransitionEvent{
		From: reagent.StageStart,
		To:   current,
	})

	reviewRetries := 0
	toolCycles := 0
	bestAnswer := ""
	bestScore := -1

	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		var next reagent.Stage
		switch current {
		case reagent.StageAnalyze:
			w.analyze(ctx, state)
			if !state.ToolingComplete && toolCycles >= w.maxToolCycles {
				// The tool cycle is spinning without converging. Force the
				// answer path with whatever the history holds.
				state.AppendEvent(reagent.StageAnalyze, reagent.KindError,
					fmt.Sprintf("tool cycle limit (%d) reached, drafting answer", w.maxToolCycles))
				state.ToolingComplete = true
			}
			if state.ToolingComplete {
				next = reagent.StageAnswer
			} else {
				next = reagent.StageExecute
			}

		case reagent.StageExecute:
			toolCycles++
			w.execute(ctx, state)
			next = reagent.StageAnalyze

		case reagent.StageAnswer:
			w.answer(ctx, state)
			next = reagent.StageReview

		case reagent.StageReview:
			w.review(ctx, state)
			if state.Score > bestScore {
				bestScore = state.Score
				bestAnswer = state.SuggestedAnswer
			}
			if state.Score >= w.scoreThreshold {
				next = reagent.StageFinalize
			} else if reviewRetries >= w.maxReviewRetries {
				// Retry budget spent: finalize with the best draft seen.
				state.AppendEvent(reagent.StageReview, reagent.KindError,
					fmt.Sprintf("review retry limit (%d) reached, finalizing best answer (score %d)",
						w.maxReviewRetries, bestScore))
				state.SuggestedAnswer = bestAnswer
				state.Score = bestScore
				next = reagent.StageFinalize
			} else {
				reviewRetries++
				// Re-open the tool cycle so analyze can gather more context
				// before the redraft.
				state.ToolingComplete = false
				next = reagent.StageAnalyze
			}

		case reagent.StageFinalize:
			w.finalize(state)
			return state, nil
		}

		w.hooks.FireStageTransition(ctx, reagent.StageTransitionEvent{From: current, To: next})
		current = next
	}
}

// AsRunner exposes the workflow through the reagent.Runner interface for
// front end adapters.
func (w *Workflow) AsRunner() reagent.Runner {
	return reagent.RunnerFunc(func(ctx context.Context, task string) (string, error) {
		state, err := w.Run(ctx, task)
		if err != nil {
			return "", err
		}
		if state.AgentResponse != "" {
			return state.AgentResponse, nil
		}
		if state.Error != "" {
			return state.Error, nil
		}
		return "No result", nil
	})
}
