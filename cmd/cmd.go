// Package cmd provides CLI commands for coda.
//
// Commands:
//   - run: One-shot structured request from argument or stdin
//   - serve: HTTP API server for editor extensions
//   - mcp: Model Context Protocol server for IDE integration
//
// Signal handling and graceful shutdown are implemented
// for all commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the coda CLI application.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "run":
		return runRun()
	case "serve":
		return runServe()
	case "mcp":
		return runMCP()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Coda - AI coding assistant for editor integrations")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  coda run [json]    Route one structured request (reads stdin if no argument)")
	fmt.Println("  coda serve [addr]  Start HTTP API server (default: 127.0.0.1:3400)")
	fmt.Println("  coda mcp           Start MCP server (for Claude Desktop/Cursor)")
	fmt.Println("  coda --version     Show version information")
	fmt.Println("  coda --help        Show this help")
	fmt.Println()
	fmt.Println("Actions (in the request's \"action\" field):")
	fmt.Println("  complete_code      Complete code at a cursor position")
	fmt.Println("  explain_code       Explain what code does")
	fmt.Println("  fix_error          Fix an error in code")
	fmt.Println("  refactor           Refactor code toward a goal")
	fmt.Println("  generate_tests     Generate tests for code")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY     Required for the default provider")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
	fmt.Println()
	fmt.Println("Learn more: https://github.com/coda0/coda")
}
