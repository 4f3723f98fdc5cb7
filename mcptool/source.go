// Package mcptool discovers tools from an MCP (Model Context Protocol)
// server and adapts them to the reagent.Tool interface.
//
// The tool catalog is loaded once at process start; discovered tools carry
// the server's declared input schemas, so the coordinators' input coercion
// applies to them unchanged.
package mcptool

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/reagentdev/reagent"
)

// Transport selects how the client connects to the MCP server.
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable-http"
)

// Config describes the MCP server connection.
type Config struct {
	// Address is the server URL, e.g. http://localhost:3000/sse.
	Address string

	// Transport is TransportSSE (default) or TransportStreamable.
	Transport string

	// NamePrefix, when set, is prepended to every discovered tool name as
	// "<prefix>_<name>" to avoid collisions with locally registered tools.
	NamePrefix string
}

// Source is a connected MCP client exposing the server's tools.
type Source struct {
	client *client.Client
	prefix string
}

// Connect starts an MCP client session against the configured server.
func Connect(ctx context.Context, cfg Config) (*Source, error) {
	var (
		c   *client.Client
		err error
	)
	switch cfg.Transport {
	case TransportStreamable:
		c, err = client.NewStreamableHttpClient(cfg.Address)
	case TransportSSE, "":
		c, err = client.NewSSEMCPClient(cfg.Address)
	default:
		return nil, fmt.Errorf("unknown MCP transport %q", cfg.Transport)
	}
	if err != nil {
		return nil, fmt.Errorf("creating MCP client for %s: %w", cfg.Address, err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting MCP client for %s: %w", cfg.Address, err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "reagent",
		Version: "1.0.0",
	}
	if _, err := c.Initialize(ctx, initRequest); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initializing MCP session with %s: %w", cfg.Address, err)
	}

	return &Source{client: c, prefix: cfg.NamePrefix}, nil
}

// Tools lists the server's tools, adapted to reagent.Tool.
func (s *Source) Tools(ctx context.Context) ([]reagent.Tool, error) {
	list, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("listing MCP tools: %w", err)
	}

	tools := make([]reagent.Tool, 0, len(list.Tools))
	for _, t := range list.Tools {
		tools = append(tools, &remoteTool{
			source:      s,
			name:        prefixedName(s.prefix, t.Name),
			remoteName:  t.Name,
			description: t.Description,
			schema:      toolSchema(t),
		})
	}
	return tools, nil
}

// Close terminates the MCP session.
func (s *Source) Close() error {
	return s.client.Close()
}

// remoteTool adapts one MCP tool to reagent.Tool.
type remoteTool struct {
	source      *Source
	name        string
	remoteName  string
	description string
	schema      map[string]any
}

func (t *remoteTool) Name() string                { return t.name }
func (t *remoteTool) Description() string         { return t.description }
func (t *remoteTool) InputSchema() map[string]any { return t.schema }

// Call invokes the remote tool. Text content parts are joined into a single
// observation string; a result flagged IsError is surfaced as an error so the
// coordinator records it as a recoverable failure.
func (t *remoteTool) Call(ctx context.Context, input any) (string, error) {
	request := mcp.CallToolRequest{}
	request.Params.Name = t.remoteName
	request.Params.Arguments = input

	result, err := t.source.client.CallTool(ctx, request)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", reagent.ErrToolInvocation, t.name, err)
	}

	text := JoinContent(result.Content)
	if result.IsError {
		return "", fmt.Errorf("%w: %s: %s", reagent.ErrToolInvocation, t.name, text)
	}
	return text, nil
}

// JoinContent flattens MCP content parts into observation text. Text parts
// are joined with ", "; non-text parts are represented by their type.
func JoinContent(parts []mcp.Content) string {
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if tc, ok := mcp.AsTextContent(part); ok {
			texts = append(texts, tc.Text)
			continue
		}
		texts = append(texts, fmt.Sprintf("[%T]", part))
	}
	return strings.Join(texts, ", ")
}

// toolSchema converts an MCP input schema declaration to the raw map form
// the schema package parses.
func toolSchema(t mcp.Tool) map[string]any {
	s := map[string]any{}
	if t.InputSchema.Type != "" {
		s["type"] = t.InputSchema.Type
	}
	if len(t.InputSchema.Properties) > 0 {
		props := make(map[string]any, len(t.InputSchema.Properties))
		for name, prop := range t.InputSchema.Properties {
			props[name] = prop
		}
		s["properties"] = props
	}
	if len(t.InputSchema.Required) > 0 {
		s["required"] = t.InputSchema.Required
	}
	if len(s) == 0 {
		return nil
	}
	return s
}

func prefixedName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
