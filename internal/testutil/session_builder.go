package testutil

import (
	"github.com/campusdesk/campusdesk/core"
)

// SessionBuilder constructs sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").
//		ActiveAgent("course_advisor_agent").
//		Exchange("hi", "hello", "course_advisor_agent").
//		Build()
type SessionBuilder struct {
	id          string
	activeAgent string
	turns       []core.Turn
}

// NewSessionBuilder creates a builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id}
}

// ActiveAgent sets the session's active agent (chainable).
func (b *SessionBuilder) ActiveAgent(name string) *SessionBuilder {
	b.activeAgent = name
	return b
}

// Turn appends a single turn to the history (chainable).
func (b *SessionBuilder) Turn(role, content, agent string) *SessionBuilder {
	b.turns = append(b.turns, core.Turn{Role: role, Content: content, Agent: agent})
	return b
}

// Exchange appends a user turn followed by an assistant turn attributed to
// the given agent (chainable).
func (b *SessionBuilder) Exchange(query, reply, agent string) *SessionBuilder {
	return b.
		Turn(core.RoleUser, query, "").
		Turn(core.RoleAssistant, reply, agent)
}

// Build returns a *core.Session with the accumulated state.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.activeAgent)
	for _, turn := range b.turns {
		s.AddTurn(turn)
	}
	return s
}
