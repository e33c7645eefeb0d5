package core

import (
	"context"
	"sync"
	"time"
)

// Conversation roles recorded in a session's turn history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single conversational exchange entry. Assistant turns carry the
// name of the agent that produced them so the UI can attribute replies.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents a conversational container tracking an ordered turn
// history plus the currently active agent. It is safe for concurrent access.
//
// Contract:
//   - Mutations update the Updated timestamp
//   - Turns returns a defensive copy to avoid external mutation
//   - Clone performs a deep copy for safe divergence
//   - A session always names exactly one active agent
type Session struct {
	ID          string    `json:"id"`
	ActiveAgent string    `json:"active_agent"`
	History     []Turn    `json:"history"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	mu          sync.RWMutex
}

// NewSession creates an empty session with the given id and initial active agent.
func NewSession(id, activeAgent string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, ActiveAgent: activeAgent, History: []Turn{}, Created: now, Updated: now}
}

// AddTurn appends a turn to the history, stamping it if unstamped.
func (s *Session) AddTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	s.History = append(s.History, t)
	s.Updated = time.Now().UTC()
}

// SetActiveAgent records the agent that handles subsequent turns.
func (s *Session) SetActiveAgent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActiveAgent = name
	s.Updated = time.Now().UTC()
}

// GetActiveAgent returns the currently active agent name.
func (s *Session) GetActiveAgent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ActiveAgent
}

// Turns returns a defensive copy of the full turn history.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.History))
	copy(turns, s.History)
	return turns
}

// Len returns the number of recorded turns.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.History)
}

// Reset empties the turn history and resets the active agent, preserving the
// session id. Used by the orchestrator's clear operation.
func (s *Session) Reset(activeAgent string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = s.History[:0]
	s.ActiveAgent = activeAgent
	s.Updated = time.Now().UTC()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, ActiveAgent: s.ActiveAgent, History: make([]Turn, len(s.History)), Created: s.Created, Updated: s.Updated}
	copy(clone.History, s.History)
	return clone
}

// SessionStore persists sessions and their evolving turn history. The
// orchestrator reads and writes through this interface but does not own
// persistence; expiry and durability are backend concerns.
//
// Load returns (nil, nil) for an unknown id rather than an error so callers
// can distinguish "absent" from "backend failure".
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	NewID() string
}
