package reagent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionKind discriminates the closed set of decisions a model turn can
// produce.
type ActionKind string

const (
	// ActionToolCall means the model asked to invoke a named tool.
	ActionToolCall ActionKind = "tool"

	// ActionFinalAnswer means the model delivered its final answer.
	ActionFinalAnswer ActionKind = "finalAnswer"

	// ActionParseError means the model output could not be decoded into either
	// of the above. The raw text is preserved so the coordinator can record it
	// as an observation and continue.
	ActionParseError ActionKind = "parseError"
)

// Action is a single model decision: call a tool, deliver a final answer, or
// (when the output is undecodable) a parse error. It is produced fresh each
// model turn and immediately consumed; it is never persisted.
type Action struct {
	Kind ActionKind

	// Tool and ToolInput are set when Kind is ActionToolCall.
	Tool      string
	ToolInput any

	// Answer is set when Kind is ActionFinalAnswer.
	Answer string

	// Reasoning accompanies both tool calls and final answers.
	Reasoning string

	// Raw is the original model output, set when Kind is ActionParseError.
	Raw string

	// Err describes what went wrong, set when Kind is ActionParseError.
	Err error
}

// ParseAction turns raw model output into an Action. It never returns an
// error: undecodable output yields an ActionParseError carrying the raw text.
//
// Parsing is tolerant:
//  1. The full trimmed text is parsed as a JSON object.
//  2. On failure, JSON is extracted from a fenced code block or from the first
//     balanced {...} span and re-parsed.
//  3. Legacy shapes without an "actionType" field are normalized: a "tool"
//     field implies a tool call; an "answer" or "finalAnswer" field implies a
//     final answer (preferring "answer").
//
// Unknown "actionType" values are a parse error, not silently ignored.
func ParseAction(raw string) *Action {
	obj, err := decodeObject(raw)
	if err != nil {
		return &Action{
			Kind: ActionParseError,
			Raw:  raw,
			Err:  fmt.Errorf("%w: %v", ErrInvalidJSON, err),
		}
	}

	normalizeLegacy(obj)

	reasoning, _ := obj["reasoning"].(string)

	switch actionType, _ := obj["actionType"].(string); actionType {
	case "tool":
		name, _ := obj["tool"].(string)
		if name == "" {
			return &Action{
				Kind: ActionParseError,
				Raw:  raw,
				Err:  fmt.Errorf("%w: tool action without tool name", ErrInvalidJSON),
			}
		}
		return &Action{
			Kind:      ActionToolCall,
			Tool:      name,
			ToolInput: obj["toolInput"],
			Reasoning: reasoning,
		}

	case "finalAnswer":
		answer, _ := obj["answer"].(string)
		if answer == "" {
			answer, _ = obj["finalAnswer"].(string)
		}
		return &Action{
			Kind:      ActionFinalAnswer,
			Answer:    answer,
			Reasoning: reasoning,
		}

	default:
		return &Action{
			Kind: ActionParseError,
			Raw:  raw,
			Err:  fmt.Errorf("%w: unknown action type %q", ErrInvalidJSON, actionType),
		}
	}
}

// normalizeLegacy fills in a missing "actionType" from the fields that are
// present. Older prompt revisions produced objects keyed only by "tool" or
// "answer"/"finalAnswer".
func normalizeLegacy(obj map[string]any) {
	if _, ok := obj["actionType"].(string); ok {
		return
	}
	if _, ok := obj["tool"]; ok {
		obj["actionType"] = "tool"
		return
	}
	_, hasAnswer := obj["answer"]
	_, hasFinal := obj["finalAnswer"]
	if hasAnswer || hasFinal {
		obj["actionType"] = "finalAnswer"
	}
}

// decodeObject parses raw as a JSON object, falling back to extraction from
// fenced blocks or balanced brace spans.
func decodeObject(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		return obj, nil
	}

	extracted, ok := ExtractJSONObject(trimmed)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in %d bytes of output", len(raw))
	}
	if err := json.Unmarshal([]byte(extracted), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// ExtractJSONObject extracts a JSON object from text that may wrap it in a
// fenced code block or surround it with prose. It returns the extracted span
// and whether one was found. The span is not guaranteed to be valid JSON; the
// caller must still unmarshal it.
func ExtractJSONObject(text string) (string, bool) {
	if fenced, ok := extractFenced(text); ok {
		if span, ok := balancedBraceSpan(fenced); ok {
			return span, true
		}
	}
	return balancedBraceSpan(text)
}

// extractFenced returns the content of the first ``` fenced block, tolerating
// an optional language tag such as ```json.
func extractFenced(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the language tag line if the fence opener has one.
		firstLine := strings.TrimSpace(rest[:nl])
		if !strings.ContainsAny(firstLine, "{}") {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// balancedBraceSpan returns the first balanced {...} span in text, honoring
// JSON string literals and escapes so braces inside strings don't count.
func balancedBraceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
