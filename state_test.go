package reagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentState(t *testing.T) {
	state := NewAgentState("what is 2+2?")

	assert.Equal(t, "what is 2+2?", state.Task)
	require.Len(t, state.History, 1)
	assert.Equal(t, StageStart, state.History[0].Stage)
	assert.Equal(t, KindRequest, state.History[0].Kind)
	assert.Equal(t, "what is 2+2?", state.History[0].Payload)
}

func TestAgentState_AppendEvent(t *testing.T) {
	state := NewAgentState("task")

	state.AppendEvent(StageAnalyze, KindRequest, "analyzing")
	state.AppendEvent(StageAnalyze, KindResponse, "done")
	state.AppendEvent(StageExecute, KindError, "boom")

	require.Len(t, state.History, 4)
	assert.Equal(t, HistoricEvent{Stage: StageAnalyze, Kind: KindRequest, Payload: "analyzing"}, state.History[1])
	assert.Equal(t, HistoricEvent{Stage: StageAnalyze, Kind: KindResponse, Payload: "done"}, state.History[2])
	assert.Equal(t, HistoricEvent{Stage: StageExecute, Kind: KindError, Payload: "boom"}, state.History[3])
}

func TestAgentState_RenderHistory(t *testing.T) {
	state := NewAgentState("task")
	state.AppendEvent(StageAnalyze, KindResponse, "use calculator")
	state.AppendEvent(StageExecute, KindError, "tool failed")

	expected := "start - request: task\n" +
		"analyze - response: use calculator\n" +
		"tool - error: tool failed"
	assert.Equal(t, expected, state.RenderHistory())
}
