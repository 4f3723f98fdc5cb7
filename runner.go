package reagent

import "context"

// Runner is the coordinator-agnostic entry point front ends drive: one natural
// language task in, one final answer out. Both the react loop and the workflow
// graph are exposed to adapters through this interface.
//
// Task runs are independent: implementations share no mutable state between
// calls and may be invoked concurrently.
type Runner interface {
	Run(ctx context.Context, task string) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, task string) (string, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, task string) (string, error) {
	return f(ctx, task)
}
