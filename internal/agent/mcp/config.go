package mcp

// config.go converts tool-server entries from the application config into
// Genkit client options.
//
// LoadConfigs() applies:
//   - Whitelist/blacklist filtering (blacklist takes precedence)
//   - Environment variable resolution ($VAR_NAME syntax, Gemini CLI-compatible)
//   - Transport mapping: stdio → child process, sse/http → remote endpoint
//
// Follows the explicit-configuration principle — no auto-detection, every
// server must be defined in config.

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/firebase/genkit/go/plugins/mcp"

	"github.com/coda0/coda/internal/config"
)

// LoadConfigs builds the filtered, env-resolved tool-server configurations
// from the application config.
func LoadConfigs(cfg *config.Config) ([]Config, error) {
	if len(cfg.Servers) == 0 {
		slog.Info("no tool servers configured, agent runs without tools")
		return []Config{}, nil
	}

	slog.Info("loading tool-server configurations",
		"configured_servers", len(cfg.Servers),
		"allowed", cfg.MCP.Allowed,
		"excluded", cfg.MCP.Excluded)

	var candidates []Config
	for name, srv := range cfg.Servers {
		opts, err := clientOptions(name, srv)
		if err != nil {
			return nil, fmt.Errorf("server %q: %w", name, err)
		}
		candidates = append(candidates, Config{Name: name, ClientOptions: opts})
	}

	// Blacklist has the highest priority.
	if len(cfg.MCP.Excluded) > 0 {
		before := len(candidates)
		candidates = filterExcluded(candidates, cfg.MCP.Excluded)
		slog.Info("applied tool-server blacklist",
			"excluded", cfg.MCP.Excluded,
			"removed_count", before-len(candidates))
	}

	if len(cfg.MCP.Allowed) > 0 {
		before := len(candidates)
		candidates = filterAllowed(candidates, cfg.MCP.Allowed)
		slog.Info("applied tool-server whitelist",
			"allowed", cfg.MCP.Allowed,
			"kept_count", len(candidates),
			"filtered_out", before-len(candidates))
	}

	if len(candidates) == 0 {
		slog.Info("no tool servers after filtering")
	}

	return candidates, nil
}

// clientOptions maps one config entry to Genkit client options by transport
// kind.
func clientOptions(name string, srv config.Server) (mcp.MCPClientOptions, error) {
	switch srv.Kind() {
	case config.TransportStdio:
		return mcp.MCPClientOptions{
			Name: name,
			Stdio: &mcp.StdioConfig{
				Command: srv.Command,
				Args:    srv.Args,
				Env:     envMapToSlice(resolveEnvVars(srv.Env)),
			},
		}, nil
	case config.TransportSSE:
		return mcp.MCPClientOptions{
			Name: name,
			SSE: &mcp.SSEConfig{
				BaseURL: srv.URL,
				Headers: resolveEnvVars(srv.Headers),
			},
		}, nil
	case config.TransportHTTP:
		return mcp.MCPClientOptions{
			Name: name,
			StreamableHTTP: &mcp.StreamableHTTPConfig{
				BaseURL: srv.URL,
				Headers: resolveEnvVars(srv.Headers),
			},
		}, nil
	default:
		return mcp.MCPClientOptions{}, fmt.Errorf("unknown transport %q", srv.Transport)
	}
}

// resolveEnvVars resolves $VAR_NAME references against the process
// environment, following Gemini CLI's substitution convention.
//
// Example:
//
//	Input:  {"API_KEY": "$GITHUB_TOKEN"}
//	Output: {"API_KEY": "actual_token_value"}
func resolveEnvVars(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	resolved := make(map[string]string, len(m))
	for key, value := range m {
		if strings.HasPrefix(value, "$") {
			envName := strings.TrimPrefix(value, "$")
			envValue := os.Getenv(envName)
			if envValue == "" {
				slog.Warn("environment variable not set for tool server",
					"env_var", envName,
					"mapped_to", key)
			}
			resolved[key] = envValue
		} else {
			// Literal value (not recommended for secrets, but supported).
			resolved[key] = value
		}
	}
	return resolved
}

// envMapToSlice converts an environment map to the KEY=VALUE slice format
// required by Genkit's StdioConfig.Env field.
func envMapToSlice(m map[string]string) []string {
	if m == nil {
		return nil
	}
	result := make([]string, 0, len(m))
	for k, v := range m {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// filterExcluded removes blacklisted servers from candidates.
func filterExcluded(candidates []Config, excluded []string) []Config {
	excludedSet := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		excludedSet[name] = true
	}

	filtered := make([]Config, 0, len(candidates))
	for _, candidate := range candidates {
		if excludedSet[candidate.Name] {
			slog.Info("excluded tool server", "server", candidate.Name)
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

// filterAllowed keeps only whitelisted servers.
func filterAllowed(candidates []Config, allowed []string) []Config {
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	filtered := make([]Config, 0, len(candidates))
	for _, candidate := range candidates {
		if allowedSet[candidate.Name] {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}
