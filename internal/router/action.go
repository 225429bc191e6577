package router

// Action classifies a coding request and selects the instruction template
// and response key used to serve it.
//
// The set of recognized actions is closed: adding a new action means adding
// a constant here, a response key in Key(), and a template branch in
// Instruction(). Anything outside the set is reported back to the caller as
// an "Unknown action" response value, never as a raised failure.
type Action string

// Recognized actions.
const (
	ActionCompleteCode  Action = "complete_code"
	ActionExplainCode   Action = "explain_code"
	ActionFixError      Action = "fix_error"
	ActionRefactor      Action = "refactor"
	ActionGenerateTests Action = "generate_tests"
)

// Default values for optional request fields.
const (
	// DefaultGoal is used by ActionRefactor when no goal is supplied.
	DefaultGoal = "improve readability and performance"

	// DefaultFramework is used by ActionGenerateTests when no framework is supplied.
	DefaultFramework = "pytest"
)

// Actions lists all recognized actions in a stable order.
// Useful for registration loops (MCP tools, documentation).
func Actions() []Action {
	return []Action{
		ActionCompleteCode,
		ActionExplainCode,
		ActionFixError,
		ActionRefactor,
		ActionGenerateTests,
	}
}

// Known reports whether the action is one of the recognized kinds.
func (a Action) Known() bool {
	switch a {
	case ActionCompleteCode, ActionExplainCode, ActionFixError, ActionRefactor, ActionGenerateTests:
		return true
	default:
		return false
	}
}

// Key returns the response key associated with the action.
// Returns "" for unrecognized actions.
func (a Action) Key() string {
	switch a {
	case ActionCompleteCode:
		return "completion"
	case ActionExplainCode:
		return "explanation"
	case ActionFixError:
		return "fix"
	case ActionRefactor:
		return "refactored"
	case ActionGenerateTests:
		return "tests"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}
