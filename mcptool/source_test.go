package mcptool

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestJoinContent(t *testing.T) {
	tests := []struct {
		name     string
		parts    []mcp.Content
		expected string
	}{
		{
			name:     "no parts",
			parts:    nil,
			expected: "",
		},
		{
			name: "single text part",
			parts: []mcp.Content{
				mcp.NewTextContent("sunny, 21 degrees"),
			},
			expected: "sunny, 21 degrees",
		},
		{
			name: "multiple text parts joined",
			parts: []mcp.Content{
				mcp.NewTextContent("first"),
				mcp.NewTextContent("second"),
			},
			expected: "first, second",
		},
		{
			name: "non-text part rendered by type",
			parts: []mcp.Content{
				mcp.NewTextContent("caption"),
				mcp.NewImageContent("data", "image/png"),
			},
			expected: "caption, [mcp.ImageContent]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinContent(tt.parts))
		})
	}
}

func TestToolSchema(t *testing.T) {
	tool := mcp.Tool{
		Name: "weather",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"city": map[string]any{"type": "string"},
			},
			Required: []string{"city"},
		},
	}

	s := toolSchema(tool)

	assert.Equal(t, "object", s["type"])
	assert.Equal(t, map[string]any{
		"city": map[string]any{"type": "string"},
	}, s["properties"])
	assert.Equal(t, []string{"city"}, s["required"])
}

func TestToolSchema_Empty(t *testing.T) {
	assert.Nil(t, toolSchema(mcp.Tool{Name: "noargs"}))
}

func TestPrefixedName(t *testing.T) {
	assert.Equal(t, "weather", prefixedName("", "weather"))
	assert.Equal(t, "remote_weather", prefixedName("remote", "weather"))
}
