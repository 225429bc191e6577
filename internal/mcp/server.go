// Package mcp exposes coda's coding actions as Model Context Protocol
// tools, so MCP-capable editors (VS Code, Claude Desktop, Cursor) can call
// them over stdio.
//
// Each tool maps one-to-one onto a router action; the handler builds the
// structured request inline and returns the routed reply as text content.
// Direct inline handling, no conversion layer.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coda0/coda/internal/router"
)

// Server wraps the MCP SDK server and coda's request router.
type Server struct {
	mcpServer *mcp.Server
	router    *router.Router
	logger    *slog.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Router  *router.Router
	Logger  *slog.Logger
}

// NewServer creates a new MCP server with all action tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Router == nil {
		return nil, fmt.Errorf("router is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		router:    cfg.Router,
		logger:    logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// registerTools registers one MCP tool per recognized action.
func (s *Server) registerTools() error {
	if err := s.registerCompleteCode(); err != nil {
		return err
	}
	if err := s.registerExplainCode(); err != nil {
		return err
	}
	if err := s.registerFixError(); err != nil {
		return err
	}
	if err := s.registerRefactor(); err != nil {
		return err
	}
	return s.registerGenerateTests()
}

// route runs the request through the router and shapes the reply as MCP
// text content. Unknown actions can't occur here (tools are registered per
// action), so a present "error" key is reported as a tool error.
func (s *Server) route(ctx context.Context, req router.Request) (*mcp.CallToolResult, error) {
	s.logger.Debug("routing tool call", "action", req.Action)

	resp, err := s.router.Route(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("routing %s: %w", req.Action, err)
	}

	if msg, ok := resp["error"]; ok {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: msg}},
			IsError: true,
		}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: resp[req.Action.Key()]}},
	}, nil
}

// CompleteCodeInput defines the input schema for the complete_code tool.
type CompleteCodeInput struct {
	Context string `json:"context,omitempty" jsonschema:"Code surrounding the completion point"`
	Cursor  string `json:"cursor,omitempty" jsonschema:"Cursor position within the context"`
}

func (s *Server) registerCompleteCode() error {
	inputSchema, err := jsonschema.For[CompleteCodeInput](nil)
	if err != nil {
		return fmt.Errorf("creating complete_code schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        string(router.ActionCompleteCode),
		Description: "Complete code at the given cursor position.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in CompleteCodeInput) (*mcp.CallToolResult, any, error) {
		result, err := s.route(ctx, router.Request{
			Action:  router.ActionCompleteCode,
			Context: in.Context,
			Cursor:  in.Cursor,
		})
		return result, nil, err
	})
	return nil
}

// ExplainCodeInput defines the input schema for the explain_code tool.
type ExplainCodeInput struct {
	Code string `json:"code,omitempty" jsonschema:"The code to explain"`
}

func (s *Server) registerExplainCode() error {
	inputSchema, err := jsonschema.For[ExplainCodeInput](nil)
	if err != nil {
		return fmt.Errorf("creating explain_code schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        string(router.ActionExplainCode),
		Description: "Explain what the given code does.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in ExplainCodeInput) (*mcp.CallToolResult, any, error) {
		result, err := s.route(ctx, router.Request{
			Action: router.ActionExplainCode,
			Code:   in.Code,
		})
		return result, nil, err
	})
	return nil
}

// FixErrorInput defines the input schema for the fix_error tool.
type FixErrorInput struct {
	Error string `json:"error,omitempty" jsonschema:"The error message to fix"`
	Code  string `json:"code,omitempty" jsonschema:"The code producing the error"`
}

func (s *Server) registerFixError() error {
	inputSchema, err := jsonschema.For[FixErrorInput](nil)
	if err != nil {
		return fmt.Errorf("creating fix_error schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        string(router.ActionFixError),
		Description: "Fix the given error in the given code.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in FixErrorInput) (*mcp.CallToolResult, any, error) {
		result, err := s.route(ctx, router.Request{
			Action: router.ActionFixError,
			Error:  in.Error,
			Code:   in.Code,
		})
		return result, nil, err
	})
	return nil
}

// RefactorInput defines the input schema for the refactor tool.
type RefactorInput struct {
	Code string `json:"code,omitempty" jsonschema:"The code to refactor"`
	Goal string `json:"goal,omitempty" jsonschema:"The refactoring goal (default: improve readability and performance)"`
}

func (s *Server) registerRefactor() error {
	inputSchema, err := jsonschema.For[RefactorInput](nil)
	if err != nil {
		return fmt.Errorf("creating refactor schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        string(router.ActionRefactor),
		Description: "Refactor the given code toward a stated goal.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in RefactorInput) (*mcp.CallToolResult, any, error) {
		result, err := s.route(ctx, router.Request{
			Action: router.ActionRefactor,
			Code:   in.Code,
			Goal:   in.Goal,
		})
		return result, nil, err
	})
	return nil
}

// GenerateTestsInput defines the input schema for the generate_tests tool.
type GenerateTestsInput struct {
	Code      string `json:"code,omitempty" jsonschema:"The code to generate tests for"`
	Framework string `json:"framework,omitempty" jsonschema:"Test framework to target (default: pytest)"`
}

func (s *Server) registerGenerateTests() error {
	inputSchema, err := jsonschema.For[GenerateTestsInput](nil)
	if err != nil {
		return fmt.Errorf("creating generate_tests schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        string(router.ActionGenerateTests),
		Description: "Generate tests for the given code.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in GenerateTestsInput) (*mcp.CallToolResult, any, error) {
		result, err := s.route(ctx, router.Request{
			Action:    router.ActionGenerateTests,
			Code:      in.Code,
			Framework: in.Framework,
		})
		return result, nil, err
	})
	return nil
}
