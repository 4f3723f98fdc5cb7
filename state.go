package reagent

import (
	"fmt"
	"strings"
)

// Stage identifies which workflow stage produced a history event.
type Stage string

const (
	StageStart    Stage = "start"
	StageAnalyze  Stage = "analyze"
	StageExecute  Stage = "tool"
	StageAnswer   Stage = "answer"
	StageReview   Stage = "review"
	StageFinalize Stage = "finalize"
)

// EventKind classifies a history event as a request to a collaborator, a
// response from one, or a failure.
type EventKind string

const (
	KindRequest  EventKind = "request"
	KindResponse EventKind = "response"
	KindError    EventKind = "error"
)

// HistoricEvent is one entry in the workflow's append-only history. Insertion
// order is significant: the ordered sequence is rendered into prompt context
// for every model call.
type HistoricEvent struct {
	Stage   Stage
	Kind    EventKind
	Payload string
}

// AgentState is the single unit of mutable orchestration data, exclusively
// owned by the coordinator for the duration of one task. Tools and the model
// never mutate it directly; they return values the coordinator folds in.
type AgentState struct {
	// Task is the immutable user request for this run.
	Task string

	// History is the append-only event record. Events are never removed or
	// reordered.
	History []HistoricEvent

	// Tool and ToolInput hold the tool selected for the next execute stage.
	// Cleared after a successful execution.
	Tool      string
	ToolInput any

	// ToolOutput and Error are the last execution result and failure. Both
	// are transient and overwritten each cycle.
	ToolOutput any
	Error      string

	// SuggestedAnswer, Score, and Improvements are the product of the
	// answer/review cycle. Score is only meaningful after at least one review.
	SuggestedAnswer string
	Score           int
	Improvements    string

	// ToolingComplete and Exhausted gate the transition out of the analyze
	// stage: no further tool actions are needed or possible.
	ToolingComplete bool
	Exhausted       bool

	// AgentResponse is the value ultimately returned to the caller.
	AgentResponse string
}

// NewAgentState creates the state for one task run, seeding history with the
// initial request event.
func NewAgentState(task string) *AgentState {
	return &AgentState{
		Task: task,
		History: []HistoricEvent{
			{Stage: StageStart, Kind: KindRequest, Payload: task},
		},
	}
}

// AppendEvent records an event at the end of history.
func (s *AgentState) AppendEvent(stage Stage, kind EventKind, payload string) {
	s.History = append(s.History, HistoricEvent{Stage: stage, Kind: kind, Payload: payload})
}

// RenderHistory renders the event sequence into prompt context text. Like
// FormatScratchpad it is pure and deterministic.
func (s *AgentState) RenderHistory() string {
	lines := make([]string, len(s.History))
	for i, ev := range s.History {
		lines[i] = fmt.Sprintf("%s - %s: %s", ev.Stage, ev.Kind, ev.Payload)
	}
	return strings.Join(lines, "\n")
}
