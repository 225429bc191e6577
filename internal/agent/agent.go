// Package agent wraps a configured Genkit model and tool set behind a
// single-shot execution capability.
//
// Agent implements router.Executor: one instruction in, one complete
// textual reply out. The agentic tool-calling loop (the model deciding to
// call filesystem/git/search tools mid-generation) happens inside Genkit;
// nothing at this layer streams, retries, or caches.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

const (
	// systemPrompt frames every instruction the agent executes.
	systemPrompt = `You are a coding assistant integrated with developer tools. Help with:
- Writing clean, efficient code
- Debugging and fixing errors
- Refactoring for better performance
- Writing tests and documentation
- Following project conventions and best practices`

	// fallbackResponseMessage is returned when the model produces an empty
	// response with no tool activity.
	fallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your request."

	// defaultMaxTurns bounds the agentic tool-calling loop when the caller
	// doesn't configure one.
	defaultMaxTurns = 5
)

// Config contains all required parameters for the Agent.
type Config struct {
	Genkit *genkit.Genkit
	Logger *slog.Logger

	// ModelName is the provider-qualified model name
	// (e.g., "googleai/gemini-2.5-flash", "ollama/qwen2.5-coder").
	ModelName string

	// Tools are pre-registered Genkit tools, typically aggregated from MCP
	// servers. May be empty: the agent then answers from the model alone.
	Tools []ai.Tool

	// Generation settings. Temperature and MaxTokens only apply to Google
	// providers; other providers take their own defaults.
	Temperature float32
	MaxTokens   int
	MaxTurns    int
}

// validate checks if all required parameters are present.
func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Agent executes single natural-language instructions against a configured
// model with optional tools.
//
// All configuration is captured immutably at construction time, so a single
// Agent is safe for concurrent use.
type Agent struct {
	g         *genkit.Genkit
	logger    *slog.Logger
	modelName string
	maxTurns  int

	genConfig *genai.GenerateContentConfig // nil for non-Google providers

	tools     []ai.Tool
	toolRefs  []ai.ToolRef // cached at construction (ai.Tool implements ai.ToolRef)
	toolNames string       // cached as comma-separated for logging
}

// New creates an Agent with the given configuration.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	// Cache tool refs and names at construction (zero allocation per request).
	toolRefs := make([]ai.ToolRef, len(cfg.Tools))
	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		toolRefs[i] = t
		names[i] = t.Name()
	}

	a := &Agent{
		g:         cfg.Genkit,
		logger:    cfg.Logger,
		modelName: cfg.ModelName,
		maxTurns:  maxTurns,
		tools:     cfg.Tools,
		toolRefs:  toolRefs,
		toolNames: strings.Join(names, ", "),
	}

	// Generation config is a Google API type; only attach it for Google
	// providers so Ollama/OpenAI models don't reject it.
	if strings.HasPrefix(cfg.ModelName, "googleai/") || strings.HasPrefix(cfg.ModelName, "vertexai/") {
		temp := cfg.Temperature
		genConfig := &genai.GenerateContentConfig{Temperature: &temp}
		if cfg.MaxTokens > 0 {
			genConfig.MaxOutputTokens = int32(cfg.MaxTokens)
		}
		a.genConfig = genConfig
	}

	a.logger.Info("agent initialized",
		"model", a.modelName,
		"totalTools", len(a.tools),
		"maxTurns", a.maxTurns,
	)

	return a, nil
}

// Execute runs one instruction to completion and returns the model's full
// text output.
//
// Exactly one generation is performed per call; failures from the model or
// a tool are passed through wrapped, never retried here.
func (a *Agent) Execute(ctx context.Context, instruction string) (string, error) {
	a.logger.Debug("executing instruction",
		"model", a.modelName,
		"toolCount", len(a.tools),
		"tools", a.toolNames,
		"maxTurns", a.maxTurns,
		"instructionLength", len(instruction),
	)

	opts := []ai.GenerateOption{
		ai.WithModelName(a.modelName),
		ai.WithSystem(systemPrompt),
		ai.WithMessages(ai.NewUserMessage(ai.NewTextPart(instruction))),
		ai.WithMaxTurns(a.maxTurns),
	}
	if len(a.toolRefs) > 0 {
		opts = append(opts, ai.WithTools(a.toolRefs...))
	}
	if a.genConfig != nil {
		opts = append(opts, ai.WithConfig(a.genConfig))
	}

	resp, err := genkit.Generate(ctx, a.g, opts...)
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		a.logger.Warn("model returned empty response")
		return fallbackResponseMessage, nil
	}
	return text, nil
}
