// Package hooks provides lifecycle hook registration and dispatch for
// coordinators.
//
// A hook is any value implementing one or more of the hook interfaces; it
// only receives the events for the interfaces it implements. Coordinators
// fire events at well-defined points (model calls, tool calls, stage
// transitions, parse errors); hooks observe but never mutate run state.
//
//	registry := hooks.NewRegistry()
//	registry.Register(hooks.NewLogger(slog.Default()))
//	registry.Register(&MetricsHook{})
//
//	loop := react.New(model, tools, lib).WithHooks(registry)
package hooks

import (
	"context"

	"github.com/reagentdev/reagent"
)

// BeforeModelCallHook receives events fired immediately before model calls.
type BeforeModelCallHook interface {
	OnBeforeModelCall(ctx context.Context, e reagent.BeforeModelCallEvent)
}

// AfterModelCallHook receives events fired after model calls complete or fail.
type AfterModelCallHook interface {
	OnAfterModelCall(ctx context.Context, e reagent.AfterModelCallEvent)
}

// BeforeToolCallHook receives events fired immediately before tool calls.
type BeforeToolCallHook interface {
	OnBeforeToolCall(ctx context.Context, e reagent.BeforeToolCallEvent)
}

// AfterToolCallHook receives events fired after tool calls complete or fail.
type AfterToolCallHook interface {
	OnAfterToolCall(ctx context.Context, e reagent.AfterToolCallEvent)
}

// StageTransitionHook receives workflow stage transition events.
type StageTransitionHook interface {
	OnStageTransition(ctx context.Context, e reagent.StageTransitionEvent)
}

// ParseErrorHook receives events fired when model output could not be decoded.
type ParseErrorHook interface {
	OnParseError(ctx context.Context, e reagent.ParseErrorEvent)
}

// Registry stores hooks in registration order and dispatches events to those
// implementing the relevant interface.
//
// Registry is not safe for concurrent mutation: register all hooks before
// starting execution. Dispatch is read-only and safe to share across
// concurrently running tasks.
type Registry struct {
	hooks []any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. The hook can implement any combination of hook
// interfaces. Returns the registry for chaining.
func (r *Registry) Register(hook any) *Registry {
	if hook != nil {
		r.hooks = append(r.hooks, hook)
	}
	return r
}

// FireBeforeModelCall dispatches to all BeforeModelCallHook implementers.
func (r *Registry) FireBeforeModelCall(ctx context.Context, e reagent.BeforeModelCallEvent) {
	if r == nil {
		return
	}
	for _, hook := range r.hooks {
		if h, ok := hook.(BeforeModelCallHook); ok {
			h.OnBeforeModelCall(ctx, e)
		}
	}
}

// FireAfterModelCall dispatches to all AfterModelCallHook implementers.
func (r *Registry) FireAfterModelCall(ctx context.Context, e reagent.AfterModelCallEvent) {
	if r == nil {
		return
	}
	for _, hook := range r.hooks {
		if h, ok := hook.(AfterModelCallHook); ok {
			h.OnAfterModelCall(ctx, e)
		}
	}
}

// FireBeforeToolCall dispatches to all BeforeToolCallHook implementers.
func (r *Registry) FireBeforeToolCall(ctx context.Context, e reagent.BeforeToolCallEvent) {
	if r == nil {
		return
	}
	for _, hook := range r.hooks {
		if h, ok := hook.(BeforeToolCallHook); ok {
			h.OnBeforeToolCall(ctx, e)
		}
	}
}

// FireAfterToolCall dispatches to all AfterToolCallHook implementers.
func (r *Registry) FireAfterToolCall(ctx context.Context, e reagent.AfterToolCallEvent) {
	if r == nil {
		return
	}
	for _, hook := range r.hooks {
		if h, ok := hook.(AfterToolCallHook); ok {
			h.OnAfterToolCall(ctx, e)
		}
	}
}

// FireStageTransition dispatches to all StageTransitionHook implementers.
func (r *Registry) FireStageTransition(ctx context.Context, e reagent.StageTransitionEvent) {
	if r == nil {
		return
	}
	for _, hook := range r.hooks {
		if h, ok := hook.(StageTransitionHook); ok {
			h.OnStageTransition(ctx, e)
		}
	}
}

// FireParseError dispatches to all ParseErrorHook implementers.
func (r *Registry) FireParseError(ctx context.Context, e reagent.ParseErrorEvent) {
	if r == nil {
		return
	}
	for _, hook := range r.hooks {
		if h, ok := hook.(ParseErrorHook); ok {
			h.OnParseError(ctx, e)
		}
	}
}
