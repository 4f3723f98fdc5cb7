// Package react implements the bounded reason-then-act loop: each iteration
// asks the model to either invoke a tool or deliver a final answer, executes
// the chosen tool, records the observation, and repeats until an answer is
// produced or the iteration bound is reached.
package react

import (
	"context"
	"fmt"
	"time"

	"github.com/reagentdev/reagent"
	"github.com/reagentdev/reagent/hooks"
	"github.com/reagentdev/reagent/prompts"
	"github.com/reagentdev/reagent/schema"
	"github.com/tmc/langchaingo/llms"
)

// DefaultMaxIterations bounds the loop when no explicit bound is configured.
const DefaultMaxIterations = 10

// FallbackAnswer is returned when the iteration bound is exhausted without a
// final answer. Raw errors are never surfaced to the end user.
const FallbackAnswer = "I wasn't able to reach a conclusion after multiple attempts. " +
	"Please try asking your question differently."

// Result is the outcome of one loop run: the final (or fallback) answer and
// the full step history.
type Result struct {
	Output string
	Steps  []reagent.Step
}

// Loop is the bounded ReAct controller. Construct with New, configure with
// the With* methods, then call Run once per task. A Loop holds no per-run
// state and is safe to share across concurrent task runs.
type Loop struct {
	model         reagent.Model
	registry      *reagent.Registry
	prompts       *prompts.Library
	hooks         *hooks.Registry
	maxIterations int
	modelName     string
}

// New creates a Loop with the default iteration bound.
func New(model reagent.Model, registry *reagent.Registry, lib *prompts.Library) *Loop {
	return &Loop{
		model:         model,
		registry:      registry,
		prompts:       lib,
		maxIterations: DefaultMaxIterations,
	}
}

// WithMaxIterations sets the iteration bound. Values below 1 are ignored.
func (l *Loop) WithMaxIterations(n int) *Loop {
	if n >= 1 {
		l.maxIterations = n
	}
	return l
}

// WithHooks sets the lifecycle hook registry.
func (l *Loop) WithHooks(h *hooks.Registry) *Loop {
	l.hooks = h
	return l
}

// WithModelName sets the model name reported in events.
func (l *Loop) WithModelName(name string) *Loop {
	l.modelName = name
	return l
}

// Run executes the loop for one task.
//
// Per iteration: build the prompt from system instructions, tool guidance,
// and the rendered scratchpad; invoke the model; parse the action. Parse
// errors, unknown tools, and tool failures are recorded as step observations
// and the loop continues — they all count toward the bound. Only model
// invocation failures surface as errors; everything else resolves to a
// Result.
//
// Run always terminates within maxIterations model calls, returning either
// the model's final answer or FallbackAnswer.
func (l *Loop) Run(ctx context.Context, task string) (*Result, error) {
	steps := make([]reagent.Step, 0, l.maxIterations)

	for iteration := 0; iteration < l.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messages, err := l.buildPrompt(task, steps)
		if err != nil {
			return nil, err
		}

		raw, err := l.generate(ctx, messages)
		if err != nil {
			return nil, err
		}

		action := reagent.ParseAction(raw)
		switch action.Kind {
		case reagent.ActionFinalAnswer:
			return &Result{Output: action.Answer, Steps: steps}, nil

		case reagent.ActionParseError:
			l.hooks.FireParseError(ctx, reagent.ParseErrorEvent{
				Raw: action.Raw,
				Err: action.Err,
			})
			steps = append(steps, reagent.Step{
				Tool:        "error",
				ToolInput:   map[string]any{"error": true},
				Reasoning:   fmt.Sprintf("Error parsing response: %s", action.Raw),
				Observation: fmt.Sprintf("Error parsing response: %s", action.Raw),
			})

		case reagent.ActionToolCall:
			steps = append(steps, l.callTool(ctx, action))
		}
	}

	return &Result{Output: FallbackAnswer, Steps: steps}, nil
}

// AsRunner exposes the loop through the reagent.Runner interface for front
// end adapters.
func (l *Loop) AsRunner() reagent.Runner {
	return reagent.RunnerFunc(func(ctx context.Context, task string) (string, error) {
		result, err := l.Run(ctx, task)
		if err != nil {
			return "", err
		}
		return result.Output, nil
	})
}

// callTool looks up, coerces input for, and invokes the named tool. Failures
// become observations, never errors: tool failures are recoverable.
func (l *Loop) callTool(ctx context.Context, action *reagent.Action) reagent.Step {
	step := reagent.Step{
		Tool:      action.Tool,
		ToolInput: action.ToolInput,
		Reasoning: action.Reasoning,
	}

	tool, ok := l.registry.Lookup(action.Tool)
	if !ok {
		step.Observation = fmt.Sprintf("Tool %s not found", action.Tool)
		return step
	}

	input := schema.Coerce(schema.Parse(tool.InputSchema()), action.ToolInput)
	step.ToolInput = input

	l.hooks.FireBeforeToolCall(ctx, reagent.BeforeToolCallEvent{
		Tool:  action.Tool,
		Input: input,
	})

	start := time.Now()
	output, err := tool.Call(ctx, input)
	l.hooks.FireAfterToolCall(ctx, reagent.AfterToolCallEvent{
		Tool:     action.Tool,
		Input:    input,
		Output:   output,
		Duration: time.Since(start),
		Err:      err,
	})

	if err != nil {
		step.Observation = fmt.Sprintf("Error: %v", err)
		return step
	}
	step.Observation = output
	return step
}

// buildPrompt assembles the system message (instructions + tool guidance +
// scratchpad) and the raw user task as a separate message.
func (l *Loop) buildPrompt(task string, steps []reagent.Step) ([]llms.MessageContent, error) {
	system, err := l.prompts.Render(prompts.ReactSystem, map[string]any{
		"ToolGuidance": l.registry.Guidance(),
		"Scratchpad":   reagent.FormatScratchpad(steps),
	})
	if err != nil {
		return nil, err
	}

	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, task),
	}, nil
}

func (l *Loop) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	l.hooks.FireBeforeModelCall(ctx, reagent.BeforeModelCallEvent{
		Model:    l.modelName,
		Messages: messages,
	})

	start := time.Now()
	raw, err := l.model.GenerateText(ctx, messages)
	l.hooks.FireAfterModelCall(ctx, reagent.AfterModelCallEvent{
		Model:    l.modelName,
		Output:   raw,
		Duration: time.Since(start),
		Err:      err,
	})
	return raw, err
}
