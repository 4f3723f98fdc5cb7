package graph

import "github.com/reagentdev/reagent"

// finalize publishes the accepted draft as the terminal agent response.
func (w *Workflow) finalize(state *reagent.AgentState) {
	state.AgentResponse = state.SuggestedAnswer
}
