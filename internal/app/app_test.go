package app

import (
	"context"
	"testing"

	"go.uber.org/goleak"

	"github.com/coda0/coda/internal/config"
	"github.com/coda0/coda/internal/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClose_EmptyApp(t *testing.T) {
	t.Parallel()

	a := &App{Logger: log.NewNop()}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on empty app = %v, want nil", err)
	}
}

func TestProvideOtelShutdown_DisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cleanup := provideOtelShutdown(context.Background(), &config.Config{}, log.NewNop())
	if cleanup == nil {
		t.Fatal("cleanup func is nil")
	}
	cleanup() // no-op must be safe to call
}

func TestProvideTools_NoServers(t *testing.T) {
	t.Parallel()

	tools, host, err := provideTools(context.Background(), nil, &config.Config{}, log.NewNop())
	if err != nil {
		t.Fatalf("provideTools() error = %v", err)
	}
	if host != nil {
		t.Error("host should be nil with no configured servers")
	}
	if len(tools) != 0 {
		t.Errorf("tools = %d, want 0", len(tools))
	}
}
