// Command reagent is an interactive console chat with the agent. Each line
// you type runs one iterative loop and prints the steps as they happen.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/reagentdev/reagent"
	"github.com/reagentdev/reagent/config"
	"github.com/reagentdev/reagent/hooks"
	"github.com/reagentdev/reagent/mcptool"
	"github.com/reagentdev/reagent/models"
	"github.com/reagentdev/reagent/prompts"
	"github.com/reagentdev/reagent/react"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []openai.Option{
		openai.WithToken(cfg.LLM.APIKey),
		openai.WithModel(cfg.LLM.Model),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	registry := reagent.NewRegistry()
	if cfg.MCP.Address != "" {
		source, err := mcptool.Connect(ctx, mcptool.Config{
			Address:    cfg.MCP.Address,
			Transport:  cfg.MCP.Transport,
			NamePrefix: cfg.MCP.NamePrefix,
		})
		if err != nil {
			return fmt.Errorf("failed to connect MCP server: %w", err)
		}
		defer source.Close()
		tools, err := source.Tools(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tools: %w", err)
		}
		registry = reagent.NewRegistry(tools...)
	}

	lib, err := prompts.NewLibrary()
	if err != nil {
		return err
	}
	if cfg.Agent.PromptDir != "" {
		lib, err = prompts.NewLibraryFromDir(cfg.Agent.PromptDir)
		if err != nil {
			return err
		}
	}

	loop := react.New(models.NewLCG(llm).WithModelName(cfg.LLM.Model), registry, lib).
		WithMaxIterations(cfg.Agent.MaxIterations).
		WithHooks(hooks.NewRegistry().Register(&consolePrinter{})).
		WithModelName(cfg.LLM.Model)

	fmt.Printf("%s%sreagent interactive chat%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%sModel: %s, tools: %d. Type 'exit' to quit.%s\n\n",
		colorDim, cfg.LLM.Model, registry.Len(), colorReset)

	rl, err := readline.New(
		colorCyan + colorBold + "You: " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("\n%sGoodbye!%s\n",
					colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Printf("%sGoodbye!%s\n",
				colorGreen, colorReset)
			return nil
		}

		result, err := loop.Run(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Printf("\n%sCancelled.%s\n",
					colorYellow, colorReset)
				return nil
			}
			fmt.Fprintf(os.Stderr,
				"%sError: %v%s\n\n",
				colorRed, err, colorReset)
			continue
		}

		fmt.Printf("\n%s%sAgent:%s %s\n\n",
			colorBold, colorGreen, colorReset, result.Output)
	}
}

// consolePrinter mirrors the loop's activity onto stdout.
type consolePrinter struct{}

func (p *consolePrinter) OnBeforeModelCall(ctx context.Context, e reagent.BeforeModelCallEvent) {
	fmt.Printf("%s  [thinking...]%s\n", colorDim, colorReset)
}

func (p *consolePrinter) OnAfterModelCall(ctx context.Context, e reagent.AfterModelCallEvent) {
	if e.Err != nil {
		fmt.Printf("%s  [model error: %v]%s\n",
			colorRed, e.Err, colorReset)
	}
}

func (p *consolePrinter) OnBeforeToolCall(ctx context.Context, e reagent.BeforeToolCallEvent) {
	fmt.Printf("%s[Tool: %s]%s\n", colorBlue, e.Tool, colorReset)
}

func (p *consolePrinter) OnAfterToolCall(ctx context.Context, e reagent.AfterToolCallEvent) {
	if e.Err != nil {
		fmt.Printf("%s    Error: %v%s\n",
			colorRed, e.Err, colorReset)
		return
	}
	fmt.Printf("%s    Output: %s%s\n",
		colorDim, truncate(e.Output, 200), colorReset)
	fmt.Printf("%s    Duration: %s%s\n",
		colorDim, e.Duration.Round(time.Millisecond), colorReset)
}

func (p *consolePrinter) OnParseError(ctx context.Context, e reagent.ParseErrorEvent) {
	fmt.Printf("%s  [unparseable response, retrying]%s\n",
		colorYellow, colorReset)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
