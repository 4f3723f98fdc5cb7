// Package config loads daemon configuration from a YAML file and REAGENT_
// environment variables, with environment taking precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Coordinator modes selectable via agent.mode.
const (
	ModeGraph = "graph"
	ModeReact = "react"
)

// Config is the full daemon configuration tree.
type Config struct {
	LLM   LLMConfig   `mapstructure:"llm"`
	Agent AgentConfig `mapstructure:"agent"`
	MCP   MCPConfig   `mapstructure:"mcp"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	Slack SlackConfig `mapstructure:"slack"`
	Log   LogConfig   `mapstructure:"log"`
}

// LLMConfig selects and authenticates the backing model.
type LLMConfig struct {
	// BaseURL points at any OpenAI-compatible endpoint.
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// AgentConfig tunes the coordinators.
type AgentConfig struct {
	Mode             string `mapstructure:"mode"`
	MaxIterations    int    `mapstructure:"max_iterations"`
	ScoreThreshold   int    `mapstructure:"score_threshold"`
	MaxReviewRetries int    `mapstructure:"max_review_retries"`
	MaxToolCycles    int    `mapstructure:"max_tool_cycles"`
	PromptDir        string `mapstructure:"prompt_dir"`
}

// MCPConfig locates the tool server. An empty address disables tool
// discovery and the agent runs with no tools.
type MCPConfig struct {
	Address    string `mapstructure:"address"`
	Transport  string `mapstructure:"transport"`
	NamePrefix string `mapstructure:"name_prefix"`
}

// HTTPConfig configures the OpenAI-compatible API server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// SlackConfig enables the Slack adapter when both tokens are set.
type SlackConfig struct {
	BotToken string `mapstructure:"bot_token"`
	AppToken string `mapstructure:"app_token"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path (optional, empty means env-only) and
// the environment. REAGENT_LLM_API_KEY maps to llm.api_key and so on.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a registered default: AutomaticEnv only surfaces
	// environment values through Unmarshal for keys viper already knows.
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("agent.mode", ModeGraph)
	v.SetDefault("agent.max_iterations", 10)
	v.SetDefault("agent.score_threshold", 8)
	v.SetDefault("agent.max_review_retries", 3)
	v.SetDefault("agent.max_tool_cycles", 20)
	v.SetDefault("agent.prompt_dir", "")
	v.SetDefault("mcp.address", "")
	v.SetDefault("mcp.transport", "sse")
	v.SetDefault("mcp.name_prefix", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("slack.bot_token", "")
	v.SetDefault("slack.app_token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("REAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Agent.Mode != ModeGraph && c.Agent.Mode != ModeReact {
		return fmt.Errorf("agent.mode must be %q or %q, got %q", ModeGraph, ModeReact, c.Agent.Mode)
	}
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("agent.max_iterations must be positive, got %d", c.Agent.MaxIterations)
	}
	if c.Agent.ScoreThreshold < 0 || c.Agent.ScoreThreshold > 10 {
		return fmt.Errorf("agent.score_threshold must be within 0..10, got %d", c.Agent.ScoreThreshold)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (REAGENT_LLM_API_KEY)")
	}
	return nil
}

// SlackEnabled reports whether both Slack tokens are configured.
func (c *Config) SlackEnabled() bool {
	return c.Slack.BotToken != "" && c.Slack.AppToken != ""
}
