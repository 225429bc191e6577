// Package app wires configuration, Genkit, tool servers, the agent, and
// the request router into one container.
//
// Setup builds everything in dependency order; Close tears it down in
// reverse. Commands (one-shot CLI, HTTP server, MCP server) all start
// from the same App.
package app

import (
	"context"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"

	"github.com/coda0/coda/internal/agent"
	toolhost "github.com/coda0/coda/internal/agent/mcp"
	"github.com/coda0/coda/internal/config"
	"github.com/coda0/coda/internal/router"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit *genkit.Genkit
	Host   *toolhost.Host // nil when no tool servers are configured
	Agent  *agent.Agent
	Router *router.Router

	otelCleanup func()
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	a.logger().Info("shutting down application")

	if a.Host != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		for _, name := range a.Host.Names() {
			if err := a.Host.Disconnect(ctx, name); err != nil {
				a.logger().Warn("disconnecting tool server", "server", name, "error", err)
			}
		}
	}

	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
