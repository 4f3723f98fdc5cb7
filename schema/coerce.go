package schema

import (
	"encoding/json"
	"fmt"
)

// Coerce maps a raw candidate input (string, object, or other) onto the
// declared schema, best effort. It never fails: unresolvable mappings pass
// through with properties simply absent, and the worst case returns the raw
// input unchanged. The downstream tool call may then fail, which is an
// expected, reported outcome — not a coercion error.
//
// This is heuristic matching, not validation. Use Schema.Validate for strict
// checking.
func Coerce(s *Schema, raw any) any {
	if s == nil {
		return raw
	}

	switch s.Type {
	case "string":
		return coerceString(raw)
	case "object":
		if len(s.Properties) > 0 {
			return coerceObject(s, raw)
		}
	}
	return raw
}

// coerceString returns raw directly when it already is a string, otherwise
// serializes it.
func coerceString(raw any) any {
	if str, ok := raw.(string); ok {
		return str
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return string(data)
}

func coerceObject(s *Schema, raw any) any {
	origStr, wasString := raw.(string)

	if wasString {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(origStr), &parsed); err == nil {
			// Parsed into an object: from here on treat it like any other
			// object input, not a plain string.
			raw = parsed
			wasString = false
		} else {
			// Not a JSON object: the whole string goes into the first declared
			// string property, if the schema has one. Otherwise fall through
			// to the mapping step so the single-required-field heuristic can
			// still claim the string.
			if name, ok := s.FirstStringProperty(); ok {
				return map[string]any{name: origStr}
			}
			raw = map[string]any{}
		}
	}

	input, ok := raw.(map[string]any)
	if !ok {
		return raw
	}

	// Index input keys by canonical form for alternate-spelling probes.
	normalized := make(map[string]any, len(input))
	for key, value := range input {
		normalized[NormalizeKey(key)] = value
	}

	mapped := make(map[string]any, len(s.Properties))
	for _, name := range s.PropertyNames() {
		if value, ok := input[name]; ok {
			mapped[name] = value
			continue
		}
		if value, ok := normalized[NormalizeKey(name)]; ok {
			mapped[name] = value
		}
	}

	// Last resort: when the raw input was a plain (non-JSON) string and
	// exactly one required property is still missing, assign the string to it.
	if missing := s.MissingRequired(mapped); len(missing) == 1 && wasString {
		mapped[missing[0]] = origStr
	}

	return mapped
}
