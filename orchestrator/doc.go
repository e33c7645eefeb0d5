// Package orchestrator implements the agent routing state machine at the
// heart of CampusDesk. For every incoming query it resolves the session's
// active agent, invokes the language model with that agent's persona and the
// full conversation history, detects a structured handoff signal in the
// reply, resolves at most one handoff hop, and commits the completed exchange
// to the session store as a single all-or-nothing append.
//
// Concurrency: requests for different sessions proceed independently;
// requests racing on the same session id are serialized through a per-session
// mutex so turn order and active-agent transitions stay consistent. Failed
// model invocations never mutate session state.
package orchestrator
