package hooks

import (
	"context"
	"log/slog"
	"strings"

	"github.com/reagentdev/reagent"
	"gopkg.in/yaml.v3"
)

// Logger implements every hook interface and logs lifecycle events through
// slog. Structured payloads (tool inputs, message sequences) are rendered as
// YAML blocks for readability; nothing is truncated.
type Logger struct {
	log *slog.Logger
}

// NewLogger creates a Logger writing through the given slog.Logger.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

// OnBeforeModelCall logs the outgoing model request.
func (l *Logger) OnBeforeModelCall(ctx context.Context, e reagent.BeforeModelCallEvent) {
	l.log.DebugContext(ctx, "model call",
		"stage", string(e.Stage),
		"model", e.Model,
		"messages", asYAML(e.Messages),
	)
}

// OnAfterModelCall logs the model response or failure.
func (l *Logger) OnAfterModelCall(ctx context.Context, e reagent.AfterModelCallEvent) {
	if e.Err != nil {
		l.log.WarnContext(ctx, "model call failed",
			"stage", string(e.Stage),
			"model", e.Model,
			"duration", e.Duration,
			"error", e.Err,
		)
		return
	}
	l.log.DebugContext(ctx, "model response",
		"stage", string(e.Stage),
		"model", e.Model,
		"duration", e.Duration,
		"output", e.Output,
	)
}

// OnBeforeToolCall logs the coerced tool input.
func (l *Logger) OnBeforeToolCall(ctx context.Context, e reagent.BeforeToolCallEvent) {
	l.log.InfoContext(ctx, "tool call",
		"tool", e.Tool,
		"input", asYAML(e.Input),
	)
}

// OnAfterToolCall logs the tool result or failure.
func (l *Logger) OnAfterToolCall(ctx context.Context, e reagent.AfterToolCallEvent) {
	if e.Err != nil {
		l.log.WarnContext(ctx, "tool call failed",
			"tool", e.Tool,
			"duration", e.Duration,
			"error", e.Err,
		)
		return
	}
	l.log.InfoContext(ctx, "tool result",
		"tool", e.Tool,
		"duration", e.Duration,
		"output", e.Output,
	)
}

// OnStageTransition logs workflow stage transitions.
func (l *Logger) OnStageTransition(ctx context.Context, e reagent.StageTransitionEvent) {
	l.log.DebugContext(ctx, "stage transition",
		"from", string(e.From),
		"to", string(e.To),
	)
}

// OnParseError logs undecodable model output.
func (l *Logger) OnParseError(ctx context.Context, e reagent.ParseErrorEvent) {
	l.log.WarnContext(ctx, "parse error",
		"stage", string(e.Stage),
		"raw", e.Raw,
		"error", e.Err,
	)
}

func asYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "<unmarshalable>"
	}
	return strings.TrimRight(string(data), "\n")
}
