package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/coda0/coda/internal/app"
	"github.com/coda0/coda/internal/config"
	"github.com/coda0/coda/internal/router"
)

// runRun handles one structured request and prints the JSON reply to stdout.
//
// The request comes from the first argument, or from stdin when no argument
// is given:
//
//	coda run '{"action":"explain_code","code":"x = 1"}'
//	echo '{"action":"explain_code","code":"x = 1"}' | coda run
func runRun() error {
	raw, err := readRequest()
	if err != nil {
		return err
	}

	var req router.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parsing request JSON: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	resp, err := a.Router.Route(ctx, req)
	if err != nil {
		return fmt.Errorf("routing request: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding reply: %w", err)
	}
	return nil
}

// readRequest returns the raw request JSON from argv or stdin.
func readRequest() ([]byte, error) {
	if len(os.Args) > 2 {
		return []byte(os.Args[2]), nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading request from stdin: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no request given: pass JSON as an argument or on stdin")
	}
	return raw, nil
}
