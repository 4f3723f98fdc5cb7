package reagent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tool is an external named capability with a declared input schema.
//
// Responsibility design:
//   - Tool: accept a (coerced) input value, execute, return observation text
//   - Coordinator: coerce inputs to the schema, record results, decide next
//
// Tools should focus on business logic only; input reshaping is handled by
// the schema package before Call is invoked.
type Tool interface {
	// Name returns the tool's unique identifier used in tool calls.
	Name() string

	// Description returns a human-readable description for the LLM.
	Description() string

	// InputSchema returns the declared JSON Schema for the tool's input.
	// Returns nil if the tool takes no parameters.
	InputSchema() map[string]any

	// Call executes the tool and returns observation text for the model.
	Call(ctx context.Context, input any) (string, error)
}

// ToolFunc is a convenience type for creating tools from functions.
type ToolFunc struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, input any) (string, error)
}

// NewToolFunc creates a Tool from a function.
func NewToolFunc(
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, input any) (string, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string { return t.name }

// Description returns a human-readable description for the LLM.
func (t *ToolFunc) Description() string { return t.description }

// InputSchema returns the declared input schema.
func (t *ToolFunc) InputSchema() map[string]any { return t.schema }

// Call executes the tool function.
func (t *ToolFunc) Call(ctx context.Context, input any) (string, error) {
	return t.fn(ctx, input)
}

// Registry is a read-only snapshot of the tool catalog, taken once at process
// start and safe to share across concurrently running tasks.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates a Registry holding the given tools. Registration order
// is preserved for prompt rendering. Panics if two tools share a name.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools:  make([]Tool, 0, len(tools)),
		byName: make(map[string]Tool, len(tools)),
	}
	for _, tool := range tools {
		if tool == nil {
			panic("reagent: NewRegistry called with nil tool")
		}
		if _, exists := r.byName[tool.Name()]; exists {
			panic(fmt.Sprintf("reagent: duplicate tool name %q", tool.Name()))
		}
		r.tools = append(r.tools, tool)
		r.byName[tool.Name()] = tool
	}
	return r
}

// Lookup finds a tool by exact name match.
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool { return r.tools }

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Guidance renders the tool catalog for the ReAct system prompt: each tool's
// name, description, and declared property types. Properties are listed in
// sorted order so the rendering is deterministic.
func (r *Registry) Guidance() string {
	entries := make([]string, 0, len(r.tools))
	for _, tool := range r.tools {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s: %s", tool.Name(), tool.Description())

		if props := schemaProperties(tool.InputSchema()); len(props) > 0 {
			sb.WriteString("\nInput format: ")
			names := make([]string, 0, len(props))
			for name := range props {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if typ := propertyType(props[name]); typ != "" {
					fmt.Fprintf(&sb, "%s typeOf: %s ", name, typ)
				}
			}
		}
		entries = append(entries, sb.String())
	}
	return strings.Join(entries, "\n\n")
}

// Catalog renders the full tool catalog with complete JSON schemas, used by
// the workflow's analyze stage.
func (r *Registry) Catalog() string {
	entries := make([]string, 0, len(r.tools))
	for _, tool := range r.tools {
		schemaJSON := "null"
		if s := tool.InputSchema(); s != nil {
			if data, err := json.Marshal(s); err == nil {
				schemaJSON = string(data)
			}
		}
		entries = append(entries, fmt.Sprintf("### %s: %s\n%s\n", tool.Name(), tool.Description(), schemaJSON))
	}
	return strings.Join(entries, "\n")
}

func schemaProperties(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	props, _ := schema["properties"].(map[string]any)
	return props
}

func propertyType(prop any) string {
	obj, ok := prop.(map[string]any)
	if !ok {
		return ""
	}
	typ, _ := obj["type"].(string)
	return typ
}
