package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagentdev/reagent"
)

type weatherOutput struct {
	City    string `json:"city"`
	Degrees int    `json:"degrees"`
}

func weatherOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city":    map[string]any{"type": "string"},
			"degrees": map[string]any{"type": "integer"},
		},
		"required": []any{"city"},
	}
}

func TestDecodeStructured(t *testing.T) {
	type expected struct {
		hasErr  bool
		city    string
		degrees int
	}

	tests := []struct {
		name     string
		raw      string
		schema   map[string]any
		expected expected
	}{
		{
			name:     "clean json",
			raw:      `{"city": "Berlin", "degrees": 21}`,
			schema:   weatherOutputSchema(),
			expected: expected{city: "Berlin", degrees: 21},
		},
		{
			name:     "json wrapped in a fenced block",
			raw:      "```json\n{\"city\": \"Berlin\", \"degrees\": 21}\n```",
			schema:   weatherOutputSchema(),
			expected: expected{city: "Berlin", degrees: 21},
		},
		{
			name:     "json surrounded by prose",
			raw:      `Sure, here you go: {"city": "Berlin", "degrees": 21} and that's it.`,
			schema:   weatherOutputSchema(),
			expected: expected{city: "Berlin", degrees: 21},
		},
		{
			name:     "nil schema skips validation",
			raw:      `{"city": "Berlin"}`,
			schema:   nil,
			expected: expected{city: "Berlin"},
		},
		{
			name:     "no json object at all",
			raw:      "I cannot answer that.",
			schema:   weatherOutputSchema(),
			expected: expected{hasErr: true},
		},
		{
			name:     "schema violation is rejected",
			raw:      `{"degrees": 21}`,
			schema:   weatherOutputSchema(),
			expected: expected{hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out weatherOutput
			err := DecodeStructured(tt.raw, tt.schema, &out)

			if tt.expected.hasErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, reagent.ErrInvalidJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.city, out.City)
			assert.Equal(t, tt.expected.degrees, out.Degrees)
		})
	}
}
