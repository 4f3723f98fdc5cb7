package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	type expected struct {
		isNil      bool
		schemaType string
		properties map[string]Property
		required   []string
	}

	tests := []struct {
		name     string
		raw      map[string]any
		expected expected
	}{
		{
			name:     "nil map parses to nil",
			raw:      nil,
			expected: expected{isNil: true},
		},
		{
			name: "string schema",
			raw:  map[string]any{"type": "string"},
			expected: expected{
				schemaType: "string",
			},
		},
		{
			name: "object schema with properties and required",
			raw: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{"type": "string", "description": "city name"},
					"days": map[string]any{"type": "integer"},
				},
				"required": []any{"city"},
			},
			expected: expected{
				schemaType: "object",
				properties: map[string]Property{
					"city": {Type: "string", Description: "city name"},
					"days": {Type: "integer"},
				},
				required: []string{"city"},
			},
		},
		{
			name: "parameters envelope is unwrapped",
			raw: map[string]any{
				"parameters": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{"type": "string"},
					},
				},
			},
			expected: expected{
				schemaType: "object",
				properties: map[string]Property{
					"query": {Type: "string"},
				},
			},
		},
		{
			name: "input_schema envelope is unwrapped",
			raw: map[string]any{
				"input_schema": map[string]any{"type": "string"},
			},
			expected: expected{
				schemaType: "string",
			},
		},
		{
			name: "malformed property values are tolerated",
			raw: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"odd": "not an object",
				},
				"required": "not a list",
			},
			expected: expected{
				schemaType: "object",
				properties: map[string]Property{
					"odd": {},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.raw)

			if tt.expected.isNil {
				assert.Nil(t, s)
				return
			}
			require.NotNil(t, s)
			assert.Equal(t, tt.expected.schemaType, s.Type)
			assert.Equal(t, tt.expected.properties, s.Properties)
			assert.Equal(t, tt.expected.required, s.Required)
			assert.Equal(t, tt.raw, s.Raw())
		})
	}
}

func TestSchema_Validate(t *testing.T) {
	s := Parse(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
		},
		"required": []any{"city"},
	})

	assert.NoError(t, s.Validate(map[string]any{"city": "Berlin"}))
	assert.Error(t, s.Validate(map[string]any{"city": 42.0}))
	assert.Error(t, s.Validate(map[string]any{}))

	var nilSchema *Schema
	assert.NoError(t, nilSchema.Validate(map[string]any{"anything": true}))
}

func TestSchema_PropertyNames(t *testing.T) {
	s := Parse(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"zeta":  map[string]any{"type": "string"},
			"alpha": map[string]any{"type": "integer"},
			"mid":   map[string]any{"type": "string"},
		},
	})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, s.PropertyNames())
}

func TestSchema_FirstStringProperty(t *testing.T) {
	type expected struct {
		name  string
		found bool
	}

	tests := []struct {
		name     string
		raw      map[string]any
		expected expected
	}{
		{
			name: "first string in name order",
			raw: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"count": map[string]any{"type": "integer"},
					"query": map[string]any{"type": "string"},
					"text":  map[string]any{"type": "string"},
				},
			},
			expected: expected{name: "query", found: true},
		},
		{
			name: "no string property",
			raw: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"count": map[string]any{"type": "integer"},
				},
			},
			expected: expected{found: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, found := Parse(tt.raw).FirstStringProperty()

			assert.Equal(t, tt.expected.found, found)
			assert.Equal(t, tt.expected.name, name)
		})
	}
}

func TestSchema_MissingRequired(t *testing.T) {
	s := Parse(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "string"},
		},
		"required": []any{"a", "b"},
	})

	assert.Equal(t, []string{"a", "b"}, s.MissingRequired(map[string]any{}))
	assert.Equal(t, []string{"b"}, s.MissingRequired(map[string]any{"a": "x"}))
	assert.Nil(t, s.MissingRequired(map[string]any{"a": "x", "b": "y"}))
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{key: "cityName", expected: "cityname"},
		{key: "city_name", expected: "cityname"},
		{key: "CITY_NAME", expected: "cityname"},
		{key: "cityname", expected: "cityname"},
		{key: "already", expected: "already"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.key))
		})
	}
}
