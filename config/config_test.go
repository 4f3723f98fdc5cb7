package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnlyWithDefaults(t *testing.T) {
	t.Setenv("REAGENT_LLM_API_KEY", "sk-test")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, ModeGraph, cfg.Agent.Mode)
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, 8, cfg.Agent.ScoreThreshold)
	assert.Equal(t, 3, cfg.Agent.MaxReviewRetries)
	assert.Equal(t, 20, cfg.Agent.MaxToolCycles)
	assert.Equal(t, "sse", cfg.MCP.Transport)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.SlackEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REAGENT_LLM_API_KEY", "sk-test")
	t.Setenv("REAGENT_AGENT_MODE", "react")
	t.Setenv("REAGENT_HTTP_ADDR", ":9999")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ModeReact, cfg.Agent.Mode)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("REAGENT_LLM_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: gpt-4o-mini
agent:
  mode: react
  max_iterations: 5
mcp:
  address: http://localhost:3000/sse
slack:
  bot_token: xoxb-1
  app_token: xapp-1
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, ModeReact, cfg.Agent.Mode)
	assert.Equal(t, 5, cfg.Agent.MaxIterations)
	assert.Equal(t, "http://localhost:3000/sse", cfg.MCP.Address)
	assert.True(t, cfg.SlackEnabled())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing api key",
			env:  map[string]string{},
		},
		{
			name: "invalid mode",
			env: map[string]string{
				"REAGENT_LLM_API_KEY": "sk-test",
				"REAGENT_AGENT_MODE":  "enterprise",
			},
		},
		{
			name: "non-positive max iterations",
			env: map[string]string{
				"REAGENT_LLM_API_KEY":          "sk-test",
				"REAGENT_AGENT_MAX_ITERATIONS": "0",
			},
		},
		{
			name: "score threshold out of range",
			env: map[string]string{
				"REAGENT_LLM_API_KEY":           "sk-test",
				"REAGENT_AGENT_SCORE_THRESHOLD": "11",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")

			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("REAGENT_LLM_API_KEY", "sk-test")

	_, err := Load("/nonexistent/config.yaml")

	assert.Error(t, err)
}
