package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coda0/coda/internal/log"
	"github.com/coda0/coda/internal/router"
)

// fakeExecutor returns a canned reply or error and records instructions.
type fakeExecutor struct {
	reply        string
	err          error
	instructions []string
}

func (f *fakeExecutor) Execute(_ context.Context, instruction string) (string, error) {
	f.instructions = append(f.instructions, instruction)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestRouter(t *testing.T, exec router.Executor) *router.Router {
	t.Helper()
	r, err := router.New(exec, log.NewNop())
	if err != nil {
		t.Fatalf("creating router: %v", err)
	}
	return r
}

func TestNewServer_Success(t *testing.T) {
	t.Parallel()

	server, err := NewServer(Config{
		Name:    "test-server",
		Version: "1.0.0",
		Router:  newTestRouter(t, &fakeExecutor{reply: "ok"}),
		Logger:  log.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server.name != "test-server" {
		t.Errorf("server.name = %q, want %q", server.name, "test-server")
	}
	if server.version != "1.0.0" {
		t.Errorf("server.version = %q, want %q", server.version, "1.0.0")
	}
	if server.mcpServer == nil {
		t.Error("server.mcpServer is nil")
	}
}

func TestNewServer_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &fakeExecutor{reply: "ok"})

	tests := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{
			name:        "missing name",
			cfg:         Config{Version: "1.0.0", Router: r},
			errContains: "name is required",
		},
		{
			name:        "missing version",
			cfg:         Config{Name: "test", Router: r},
			errContains: "version is required",
		},
		{
			name:        "missing router",
			cfg:         Config{Name: "test", Version: "1.0.0"},
			errContains: "router is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewServer(tt.cfg)
			if err == nil {
				t.Fatal("NewServer expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("NewServer error = %q, want to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestServer_Route_TextReply(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{reply: "the explanation"}
	server, err := NewServer(Config{
		Name:    "test-server",
		Version: "1.0.0",
		Router:  newTestRouter(t, exec),
		Logger:  log.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	result, err := server.route(context.Background(), router.Request{
		Action: router.ActionExplainCode,
		Code:   "print('hi')",
	})
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}

	if result.IsError {
		t.Error("result.IsError = true, want false")
	}
	if len(result.Content) != 1 {
		t.Fatalf("len(result.Content) = %d, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("result.Content[0] is %T, want *mcp.TextContent", result.Content[0])
	}
	if text.Text != "the explanation" {
		t.Errorf("text = %q, want %q", text.Text, "the explanation")
	}

	if len(exec.instructions) != 1 {
		t.Fatalf("executor called %d times, want 1", len(exec.instructions))
	}
	if !strings.Contains(exec.instructions[0], "print('hi')") {
		t.Errorf("instruction = %q, want it to contain the code", exec.instructions[0])
	}
}

func TestServer_Route_ExecutorError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("model unavailable")
	server, err := NewServer(Config{
		Name:    "test-server",
		Version: "1.0.0",
		Router:  newTestRouter(t, &fakeExecutor{err: wantErr}),
		Logger:  log.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	_, err = server.route(context.Background(), router.Request{
		Action: router.ActionFixError,
		Error:  "boom",
		Code:   "x = 1",
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("route error = %v, want wrapped %v", err, wantErr)
	}
}
