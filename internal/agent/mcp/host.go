// Package mcp manages connections to MCP tool servers on the agent's
// behalf and exposes their tools in Genkit form.
//
// The package is the client side of the Model Context Protocol: it launches
// stdio servers as child processes and connects to remote servers over SSE
// or streamable HTTP, through Genkit's MCP plugin. The server side — coda
// itself speaking MCP to editors — lives in internal/mcp.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/mcp"
)

// Host manages connections to multiple MCP tool servers and provides a
// unified interface for retrieving tools and monitoring connection states.
type Host struct {
	// host is the Genkit MCPHost that manages the actual connections.
	host *mcp.MCPHost

	// states tracks the state of each server connection, keyed by name.
	states map[string]*State

	// mu protects concurrent access to states.
	mu sync.RWMutex
}

// Config represents configuration for a single tool server, ready to hand
// to Genkit.
type Config struct {
	Name          string
	ClientOptions mcp.MCPClientOptions
}

// New creates a Host connected to the provided servers.
//
// All configured servers are connected through a single Genkit MCPHost. If
// some servers fail to connect they are marked Failed in state but the Host
// is still created (graceful degradation); a nil or empty config list is
// valid and yields a Host with no tools.
func New(ctx context.Context, g *genkit.Genkit, configs []Config) (*Host, error) {
	serverConfigs := make([]mcp.MCPServerConfig, len(configs))
	for i, cfg := range configs {
		serverConfigs[i] = mcp.MCPServerConfig{
			Name:   cfg.Name,
			Config: cfg.ClientOptions,
		}
	}

	states := make(map[string]*State)
	for _, cfg := range configs {
		states[cfg.Name] = &State{
			Name:        cfg.Name,
			Status:      Connecting,
			LastAttempt: time.Now(),
		}
	}

	slog.Info("creating MCP host", "server_count", len(configs))
	host, err := mcp.NewMCPHost(g, mcp.MCPHostOptions{
		Name:       "coda-mcp",
		Version:    "1.0.0",
		MCPServers: serverConfigs,
	})
	if err != nil {
		for _, state := range states {
			state.Status = Failed
			state.LastError = err
			state.FailureCount++
		}
		slog.Error("failed to create MCP host",
			"error", err,
			"server_count", len(configs))
		return nil, fmt.Errorf("creating MCP host: %w", err)
	}

	// MCPHost doesn't expose per-server status, so track optimistically.
	for _, state := range states {
		state.Status = Connected
		state.SuccessCount++
	}

	return &Host{host: host, states: states}, nil
}

// Tools retrieves all tools from all connected servers, converted to Genkit
// ai.Tool form and ready for Generate() calls.
//
// On failure every server is marked Failed (the host doesn't say which one
// broke) and the error is returned; callers should degrade gracefully to a
// tool-less agent rather than abort.
func (h *Host) Tools(ctx context.Context, g *genkit.Genkit) ([]ai.Tool, error) {
	tools, err := h.host.GetActiveTools(ctx, g)
	if err != nil {
		h.mu.Lock()
		for _, state := range h.states {
			state.Status = Failed
			state.LastError = err
			state.FailureCount++
			state.LastAttempt = time.Now()
		}
		h.mu.Unlock()

		slog.Error("failed to get MCP tools", "error", err)
		return nil, fmt.Errorf("getting MCP tools: %w", err)
	}

	h.mu.Lock()
	for _, state := range h.states {
		state.Status = Connected
		state.LastError = nil
		state.SuccessCount++
		state.LastAttempt = time.Now()
	}
	h.mu.Unlock()

	slog.Info("retrieved MCP tools", "tool_count", len(tools))
	return tools, nil
}

// Disconnect closes the connection to a single named server.
func (h *Host) Disconnect(ctx context.Context, name string) error {
	if err := h.host.Disconnect(ctx, name); err != nil {
		return fmt.Errorf("disconnecting MCP server %s: %w", name, err)
	}

	h.mu.Lock()
	if state, ok := h.states[name]; ok {
		state.Status = Disconnected
		state.LastAttempt = time.Now()
	}
	h.mu.Unlock()
	return nil
}

// GetState returns a copy of the named server's connection state.
func (h *Host) GetState(name string) (State, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	state, exists := h.states[name]
	if !exists {
		return State{}, false
	}
	return *state, true
}

// States returns copies of all server connection states keyed by name.
func (h *Host) States() map[string]State {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]State, len(h.states))
	for name, state := range h.states {
		result[name] = *state
	}
	return result
}

// Names returns the names of all configured servers.
func (h *Host) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.states))
	for name := range h.states {
		names = append(names, name)
	}
	return names
}

// ConnectedCount returns the number of currently connected servers.
func (h *Host) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, state := range h.states {
		if state.Status == Connected {
			count++
		}
	}
	return count
}
