// Command reagentd runs the agent daemon: it discovers tools from an MCP
// server, builds a coordinator, and serves the OpenAI-compatible HTTP API
// plus an optional Slack adapter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/errgroup"

	"github.com/reagentdev/reagent"
	"github.com/reagentdev/reagent/config"
	"github.com/reagentdev/reagent/graph"
	"github.com/reagentdev/reagent/hooks"
	"github.com/reagentdev/reagent/mcptool"
	"github.com/reagentdev/reagent/models"
	"github.com/reagentdev/reagent/prompts"
	"github.com/reagentdev/reagent/react"
	"github.com/reagentdev/reagent/server"
	"github.com/reagentdev/reagent/slackbot"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional, env-only without it)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "reagentd:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, closeTools, err := discoverTools(ctx, cfg.MCP, log)
	if err != nil {
		return err
	}
	defer closeTools()

	lib, err := loadPrompts(cfg.Agent.PromptDir)
	if err != nil {
		return err
	}

	model, err := buildModel(cfg.LLM)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	hookRegistry := hooks.NewRegistry().Register(hooks.NewLogger(log))
	runner := buildRunner(cfg.Agent, model, registry, lib, hookRegistry)

	log.Info("starting reagentd",
		"mode", cfg.Agent.Mode,
		"model", cfg.LLM.Model,
		"tools", registry.Len(),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(runner, log).ListenAndServe(ctx, cfg.HTTP.Addr)
	})
	if cfg.SlackEnabled() {
		g.Go(func() error {
			return slackbot.New(cfg.Slack.BotToken, cfg.Slack.AppToken, runner, log).Run(ctx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// discoverTools connects to the configured MCP server and lists its tools.
// An empty address, or a server that exposes nothing, yields an empty
// registry and the agent answers from the model alone.
func discoverTools(ctx context.Context, cfg config.MCPConfig, log *slog.Logger) (*reagent.Registry, func(), error) {
	if cfg.Address == "" {
		log.Warn("no MCP server configured, running without tools")
		return reagent.NewRegistry(), func() {}, nil
	}

	source, err := mcptool.Connect(ctx, mcptool.Config{
		Address:    cfg.Address,
		Transport:  cfg.Transport,
		NamePrefix: cfg.NamePrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect MCP server %s: %w", cfg.Address, err)
	}

	tools, err := source.Tools(ctx)
	if err != nil {
		_ = source.Close()
		return nil, nil, fmt.Errorf("list MCP tools: %w", err)
	}
	if len(tools) == 0 {
		log.Warn("MCP server exposes no tools", "address", cfg.Address)
	}
	for _, t := range tools {
		log.Info("discovered tool", "name", t.Name(), "description", t.Description())
	}

	return reagent.NewRegistry(tools...), func() { _ = source.Close() }, nil
}

func loadPrompts(dir string) (*prompts.Library, error) {
	if dir != "" {
		return prompts.NewLibraryFromDir(dir)
	}
	return prompts.NewLibrary()
}

func buildModel(cfg config.LLMConfig) (*models.LCG, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return models.NewLCG(llm).WithModelName(cfg.Model), nil
}

func buildRunner(cfg config.AgentConfig, model *models.LCG, registry *reagent.Registry, lib *prompts.Library, h *hooks.Registry) reagent.Runner {
	if cfg.Mode == config.ModeReact {
		return react.New(model, registry, lib).
			WithMaxIterations(cfg.MaxIterations).
			WithHooks(h).
			AsRunner()
	}
	return graph.New(model, registry, lib).
		WithScoreThreshold(cfg.ScoreThreshold).
		WithMaxReviewRetries(cfg.MaxReviewRetries).
		WithMaxToolCycles(cfg.MaxToolCycles).
		WithHooks(h).
		AsRunner()
}
