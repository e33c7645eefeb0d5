package core

import "fmt"

// UnknownAgentError indicates a reference to an agent that is not registered.
// Registry construction validates the full handoff graph, so this is a fatal
// startup condition rather than a per-request failure.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q", e.Name)
}

// GenerationError wraps a failed model invocation (network, timeout, API
// error). The orchestrator guarantees no session state is mutated when it
// returns one; callers may safely retry the same query.
type GenerationError struct {
	Agent string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for agent %q: %v", e.Agent, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *GenerationError) Unwrap() error { return e.Err }
