// Package core provides the foundational domain types and contracts shared by
// the rest of CampusDesk:
//
//   - Sessions (ordered turn history + the currently active agent)
//   - Turns (role-tagged conversational exchanges)
//   - SessionStore (pluggable persistence consumed by the orchestrator)
//   - Error taxonomy (UnknownAgentError, GenerationError)
//
// The package intentionally keeps implementation concerns (storage backends,
// model providers, routing) out of scope, exposing small interfaces so custom
// backends can be wired without touching the orchestration core.
package core
