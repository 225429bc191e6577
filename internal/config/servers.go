package config

import (
	"encoding/json"
	"fmt"
)

// Tool-server transport kinds.
const (
	// TransportStdio launches the server as a child process and speaks MCP
	// over its stdin/stdout.
	TransportStdio = "stdio"

	// TransportSSE connects to a remote server over Server-Sent Events.
	TransportSSE = "sse"

	// TransportHTTP connects to a remote server over MCP streamable HTTP.
	TransportHTTP = "http"
)

// MCPConfig controls global tool-server behavior.
type MCPConfig struct {
	Allowed  []string `mapstructure:"allowed" json:"allowed"`   // Whitelist of server names (empty = all configured servers)
	Excluded []string `mapstructure:"excluded" json:"excluded"` // Blacklist of server names (higher priority than Allowed)
	Timeout  int      `mapstructure:"timeout" json:"timeout"`   // Connection timeout in seconds (default: 5)
}

// Server defines a single MCP tool-server configuration.
//
// Transport selects the connection kind; "stdio" is assumed when empty.
// A stdio server needs Command (and optionally Args/Env); a stream server
// (sse or http) needs URL (and optionally Headers).
type Server struct {
	Transport string            `mapstructure:"transport" json:"transport"`
	Command   string            `mapstructure:"command" json:"command"` // stdio: executable path (e.g., "npx")
	Args      []string          `mapstructure:"args" json:"args"`       // stdio: command arguments
	Env       map[string]string `mapstructure:"env" json:"env"`         // stdio: environment variables — SECURITY: may contain API keys/tokens
	URL       string            `mapstructure:"url" json:"url"`         // sse/http: server endpoint
	Headers   map[string]string `mapstructure:"headers" json:"headers"` // sse/http: request headers — SECURITY: may contain bearer tokens
	Timeout   int               `mapstructure:"timeout" json:"timeout"` // Optional per-server timeout (overrides global)
}

// Kind returns the effective transport, defaulting to stdio.
func (s Server) Kind() string {
	if s.Transport == "" {
		return TransportStdio
	}
	return s.Transport
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
// Masks all Env and Header values as they commonly carry API keys/tokens.
func (s Server) MarshalJSON() ([]byte, error) {
	type alias Server
	a := alias(s)
	if a.Env != nil {
		masked := make(map[string]string, len(a.Env))
		for k, v := range a.Env {
			masked[k] = maskSecret(v)
		}
		a.Env = masked
	}
	if a.Headers != nil {
		masked := make(map[string]string, len(a.Headers))
		for k, v := range a.Headers {
			masked[k] = maskSecret(v)
		}
		a.Headers = masked
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal tool server: %w", err)
	}
	return data, nil
}

// validate checks the server entry for the structural problems Validate()
// reports per name.
func (s Server) validate() error {
	switch s.Kind() {
	case TransportStdio:
		if s.Command == "" {
			return fmt.Errorf("%w: stdio transport requires 'command'", ErrInvalidServer)
		}
	case TransportSSE, TransportHTTP:
		if s.URL == "" {
			return fmt.Errorf("%w: %s transport requires 'url'", ErrInvalidServer, s.Kind())
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidServer, s.Transport)
	}
	return nil
}
