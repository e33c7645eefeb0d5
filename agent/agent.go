// Package agent defines the fixed set of conversational agents and the
// registry that validates their handoff graph. Agents are plain values:
// a persona, a capability tag, the peers they may hand off to, and the tools
// they may call. The set of agents is small and immutable after registry
// construction; all routing state lives in sessions, never here.
package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/campusdesk/campusdesk/core"
	"github.com/campusdesk/campusdesk/tool"
)

// Agent is a named persona with fixed instructions, a restricted handoff set
// and an optional tool belt. Immutable after registry construction.
type Agent struct {
	// Name is the canonical identifier used in sessions and transfer signals.
	Name string
	// DisplayName is the human-readable name surfaced to users.
	DisplayName string
	// Capability tags the agent's domain ("triage", "advisor", "poet", "scheduler").
	Capability string
	// Instructions is the persona / system prompt sent with every invocation.
	Instructions string
	// Handoffs lists the agent names this agent may transfer to.
	Handoffs []string
	// Tools are the callable capabilities exposed to the model for this agent.
	Tools []tool.Tool
}

// Tool returns the named tool and whether it is registered for this agent.
func (a *Agent) Tool(name string) (tool.Tool, bool) {
	for _, t := range a.Tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Registry is the process-wide, read-only set of agents. Construction
// validates the full handoff graph so an unknown agent reference is a
// startup failure, never a runtime one.
type Registry struct {
	mu           sync.RWMutex
	agents       map[string]*Agent
	order        []string
	defaultAgent string
}

// NewRegistry builds a registry from the given agents, validating that names
// are unique, the default agent exists, and every handoff target is itself
// registered. Violations return *core.UnknownAgentError.
func NewRegistry(defaultAgent string, agents ...*Agent) (*Registry, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("registry requires at least one agent")
	}

	r := &Registry{agents: make(map[string]*Agent, len(agents)), defaultAgent: defaultAgent}
	for _, a := range agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agent name must not be empty")
		}
		if _, exists := r.agents[a.Name]; exists {
			return nil, fmt.Errorf("duplicate agent name %q", a.Name)
		}
		r.agents[a.Name] = a
		r.order = append(r.order, a.Name)
	}

	if _, ok := r.agents[defaultAgent]; !ok {
		return nil, &core.UnknownAgentError{Name: defaultAgent}
	}
	for _, a := range agents {
		for _, target := range a.Handoffs {
			if _, ok := r.agents[target]; !ok {
				return nil, &core.UnknownAgentError{Name: target}
			}
			if target == a.Name {
				return nil, fmt.Errorf("agent %q must not hand off to itself", a.Name)
			}
		}
	}
	return r, nil
}

// Get returns the named agent or *core.UnknownAgentError.
func (r *Registry) Get(name string) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	if !ok {
		return nil, &core.UnknownAgentError{Name: name}
	}
	return a, nil
}

// AllowedHandoffs returns the handoff set for the named agent.
func (r *Registry) AllowedHandoffs(name string) ([]string, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	targets := make([]string, len(a.Handoffs))
	copy(targets, a.Handoffs)
	return targets, nil
}

// Allowed reports whether from may hand off to target.
func (r *Registry) Allowed(from, target string) bool {
	a, err := r.Get(from)
	if err != nil {
		return false
	}
	for _, t := range a.Handoffs {
		if t == target {
			return true
		}
	}
	return false
}

// Default returns the agent new and cleared sessions start with.
func (r *Registry) Default() *Agent {
	a, _ := r.Get(r.defaultAgent)
	return a
}

// Names returns all registered agent names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}
