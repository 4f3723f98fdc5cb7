package reagent

import (
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Lifecycle events fired by coordinators as a run progresses. Hooks (see the
// hooks package) subscribe to the events they care about; events are
// notifications only and must not be used to mutate run state.

// BeforeModelCallEvent fires immediately before a model invocation.
type BeforeModelCallEvent struct {
	Stage    Stage
	Model    string
	Messages []llms.MessageContent
}

// AfterModelCallEvent fires after a model invocation completes or fails.
type AfterModelCallEvent struct {
	Stage    Stage
	Model    string
	Output   string
	Duration time.Duration
	Err      error
}

// BeforeToolCallEvent fires immediately before a tool invocation, after input
// coercion.
type BeforeToolCallEvent struct {
	Tool  string
	Input any
}

// AfterToolCallEvent fires after a tool invocation completes or fails.
type AfterToolCallEvent struct {
	Tool     string
	Input    any
	Output   string
	Duration time.Duration
	Err      error
}

// StageTransitionEvent fires when the workflow graph moves between stages.
type StageTransitionEvent struct {
	From Stage
	To   Stage
}

// ParseErrorEvent fires when model output could not be decoded into an action
// or structured response. The run continues; the event exists for logging and
// telemetry.
type ParseErrorEvent struct {
	Stage Stage
	Raw   string
	Err   error
}
