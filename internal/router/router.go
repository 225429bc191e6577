// Package router translates structured coding requests into single agent
// invocations and shapes the agent's reply by action kind.
//
// The router is deliberately thin: it renders one instruction string per
// request, performs exactly one call into the Executor, and returns the
// reply verbatim under the action's response key. It implements no retries,
// caching, or rate limiting — callers that need those wrap the router or
// the surrounding transport.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors for router operations.
var (
	// ErrMissingAction indicates the request carried no action field.
	ErrMissingAction = errors.New("missing action")

	// ErrNilExecutor indicates the router was constructed without an executor.
	ErrNilExecutor = errors.New("nil executor")
)

// Executor runs a single natural-language instruction to completion and
// returns the full textual result.
//
// The interface is defined here, by its consumer, so tests can substitute a
// fake returning canned text without touching any real model or tool
// process. internal/agent provides the production implementation.
type Executor interface {
	Execute(ctx context.Context, instruction string) (string, error)
}

// Request is a structured coding request.
//
// Action is required. The remaining fields are action-specific and optional;
// unset fields default to the empty string, except Goal and Framework which
// default to DefaultGoal and DefaultFramework for the actions that use them.
type Request struct {
	Action    Action `json:"action"`
	Context   string `json:"context,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
	Goal      string `json:"goal,omitempty"`
	Framework string `json:"framework,omitempty"`
}

// withDefaults returns a copy of the request with documented defaults
// applied. Constructed once per request; the original is never mutated.
func (r Request) withDefaults() Request {
	if r.Goal == "" {
		r.Goal = DefaultGoal
	}
	if r.Framework == "" {
		r.Framework = DefaultFramework
	}
	return r
}

// Response maps exactly one response key to the agent's reply text.
// On success the key is determined by the request's action (see Action.Key);
// for an unrecognized action the single key is "error" and the value names
// the offending action.
type Response map[string]string

// Router routes coding requests to an agent executor.
//
// Router is stateless across requests: it holds only its immutable
// dependencies and is safe for concurrent use to the extent the underlying
// Executor is.
type Router struct {
	exec   Executor
	logger *slog.Logger
}

// New creates a Router backed by the given executor.
func New(exec Executor, logger *slog.Logger) (*Router, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{exec: exec, logger: logger}, nil
}

// Route translates a request into one agent invocation and one shaped
// response.
//
// A request without an action fails with ErrMissingAction. An unrecognized
// action is not a failure: it returns a Response with a single "error" key
// and performs zero executor calls, so callers can branch on bad input
// without exception handling. Executor failures are passed through
// unmodified apart from wrapping; no partial Response is returned on
// failure.
func (rt *Router) Route(ctx context.Context, req Request) (Response, error) {
	if req.Action == "" {
		return nil, fmt.Errorf("%w: request has no action field", ErrMissingAction)
	}

	if !req.Action.Known() {
		rt.logger.Warn("unknown action", "action", req.Action)
		return Response{"error": fmt.Sprintf("Unknown action: %s", req.Action)}, nil
	}

	instruction := Instruction(req)
	rt.logger.Debug("routing request",
		"action", req.Action,
		"instruction_length", len(instruction),
	)

	reply, err := rt.exec.Execute(ctx, instruction)
	if err != nil {
		return nil, fmt.Errorf("executing %s: %w", req.Action, err)
	}

	return Response{req.Action.Key(): reply}, nil
}

// Instruction renders the natural-language instruction for a recognized
// action. Field defaults are applied first, so a refactor request without a
// goal renders with DefaultGoal. Returns "" for unrecognized actions —
// Route never calls it for those.
//
// The templates are a wire-level contract with downstream prompt handling;
// change them only deliberately.
func Instruction(req Request) string {
	req = req.withDefaults()

	switch req.Action {
	case ActionCompleteCode:
		return fmt.Sprintf("Complete this code at cursor position:\n%s\nCursor: %s", req.Context, req.Cursor)
	case ActionExplainCode:
		return fmt.Sprintf("Explain this code:\n```\n%s\n```", req.Code)
	case ActionFixError:
		return fmt.Sprintf("Fix this error:\nError: %s\nCode:\n```\n%s\n```", req.Error, req.Code)
	case ActionRefactor:
		return fmt.Sprintf("Refactor this code to %s:\n```\n%s\n```", req.Goal, req.Code)
	case ActionGenerateTests:
		return fmt.Sprintf("Generate %s tests for:\n```\n%s\n```", req.Framework, req.Code)
	default:
		return ""
	}
}
