// Package schema models tool input schemas and the best-effort coercion of
// raw values onto them.
//
// A tool declares its input shape as a raw JSON Schema map. Parse extracts
// the parts the coercer cares about (top-level type, named properties,
// required list) and compiles a validator for full validation where strict
// checking is wanted.
//
//	s := schema.Parse(map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	        "city": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"city"},
//	})
//	input := schema.Coerce(s, "Berlin") // map[string]any{"city": "Berlin"}
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Property is one named, typed property of an object schema.
type Property struct {
	Type        string
	Description string
}

// Schema is the declared input shape of a tool: either a primitive string or
// an object with named, typed properties, some required.
type Schema struct {
	// Type is the top-level JSON Schema type ("string", "object", ...).
	Type string

	// Properties holds the declared properties of an object schema.
	Properties map[string]Property

	// Required lists the property names that must be present.
	Required []string

	raw      map[string]any
	compiled *jsonschema.Schema
}

// Parse extracts the declared shape from a raw JSON Schema map. It is
// tolerant: malformed fragments are skipped rather than rejected, since the
// coercer is heuristic by contract. A nil map parses to nil.
//
// Some tool services nest the actual shape under "parameters", "schema", or
// "input_schema"; Parse unwraps those envelopes.
func Parse(raw map[string]any) *Schema {
	if raw == nil {
		return nil
	}

	body := raw
	for _, envelope := range []string{"parameters", "schema", "input_schema"} {
		if inner, ok := raw[envelope].(map[string]any); ok {
			body = inner
			break
		}
	}

	s := &Schema{raw: raw}
	s.Type, _ = body["type"].(string)

	if props, ok := body["properties"].(map[string]any); ok {
		s.Properties = make(map[string]Property, len(props))
		for name, value := range props {
			prop := Property{}
			if obj, ok := value.(map[string]any); ok {
				prop.Type, _ = obj["type"].(string)
				prop.Description, _ = obj["description"].(string)
			}
			s.Properties[name] = prop
		}
	}

	switch required := body["required"].(type) {
	case []string:
		s.Required = append(s.Required, required...)
	case []any:
		for _, item := range required {
			if name, ok := item.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}

	s.compiled = compile(body)
	return s
}

// compile builds a validator from the schema body. Compilation failures are
// swallowed: an uncompilable schema degrades to no validation, matching the
// coercer's never-fail contract.
func compile(body map[string]any) *jsonschema.Schema {
	data, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil
	}
	return compiled
}

// Raw returns the original schema map as declared by the tool.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates data against the compiled schema. A nil schema or a
// schema that failed to compile validates everything.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(data); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// PropertyNames returns the declared property names in sorted order. JSON
// object keys carry no declaration order once decoded, so sorted order is the
// deterministic stand-in used wherever "first declared property" semantics
// are needed.
func (s *Schema) PropertyNames() []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FirstStringProperty returns the first (in PropertyNames order) property
// typed "string", if any.
func (s *Schema) FirstStringProperty() (string, bool) {
	for _, name := range s.PropertyNames() {
		if s.Properties[name].Type == "string" {
			return name, true
		}
	}
	return "", false
}

// MissingRequired returns the required property names absent from obj, in
// declaration order of the required list.
func (s *Schema) MissingRequired(obj map[string]any) []string {
	if s == nil {
		return nil
	}
	var missing []string
	for _, name := range s.Required {
		if _, ok := obj[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// NormalizeKey reduces a property or input key to canonical form: lower-case
// with underscores stripped. Applied to both schema property names and input
// keys before matching, it makes "cityName", "city_name", "CITYNAME", and
// "cityname" all equivalent.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", ""))
}
