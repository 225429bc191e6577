package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/tracing"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/coda0/coda/internal/agent"
	toolhost "github.com/coda0/coda/internal/agent/mcp"
	"github.com/coda0/coda/internal/config"
	"github.com/coda0/coda/internal/router"
)

const disconnectTimeout = 5 * time.Second

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing must be registered before Genkit initialization so spans from
	// generation calls reach the exporter.
	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	tools, host, err := provideTools(ctx, g, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Host = host

	ag, err := agent.New(agent.Config{
		Genkit:      g,
		Logger:      logger,
		ModelName:   cfg.FullModelName(),
		Tools:       tools,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		MaxTurns:    cfg.MaxTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	a.Agent = ag

	rt, err := router.New(ag, logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}
	a.Router = rt

	return a, nil
}

// provideOtelShutdown sets up OTLP tracing when an endpoint is configured.
// Returns a no-op cleanup when tracing is disabled or the exporter fails;
// a broken trace pipeline never blocks startup.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	tel := cfg.Telemetry
	if tel.Endpoint == "" {
		return func() {}
	}

	// Set OTEL env vars for Genkit's TracerProvider to pick up.
	// SAFETY: os.Setenv is not concurrent-safe, but this function is called
	// exactly once during startup in Setup, before goroutines are spawned.
	if tel.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", tel.ServiceName)
	}
	if tel.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+tel.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(tel.Endpoint),
		otlptracehttp.WithInsecure(), // local collector doesn't need TLS
	)
	if err != nil {
		logger.Warn("creating OTLP exporter, tracing disabled", "error", err)
		return func() {}
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("OTLP tracing enabled",
		"endpoint", tel.Endpoint,
		"service", tel.ServiceName,
		"environment", tel.Environment,
	)

	shutdown := tracing.TracerProvider().Shutdown

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports gemini (default), ollama, and openai providers.
func provideGenkit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // "gemini"
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideTools connects configured tool servers and aggregates their tools.
// Connection failures degrade gracefully: the agent still starts, just
// without the failed server's tools.
func provideTools(ctx context.Context, g *genkit.Genkit, cfg *config.Config, logger *slog.Logger) ([]ai.Tool, *toolhost.Host, error) {
	configs, err := toolhost.LoadConfigs(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tool-server configs: %w", err)
	}
	if len(configs) == 0 {
		return nil, nil, nil
	}

	host, err := toolhost.New(ctx, g, configs)
	if err != nil {
		return nil, nil, fmt.Errorf("creating tool host: %w", err)
	}

	tools, err := host.Tools(ctx, g)
	if err != nil {
		logger.Warn("fetching tools, continuing without", "error", err)
		return nil, host, nil
	}

	logger.Info("tool servers connected",
		"servers", host.ConnectedCount(),
		"tools", len(tools),
	)
	return tools, host, nil
}
