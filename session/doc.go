// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (orchestrator, façade) from depending on concrete
// storage.
//
// Two backends ship with the module: a volatile in-memory store for tests and
// demos, and a Redis store for deployments where sessions must survive a
// process restart. Additional backends only need to satisfy the three-method
// contract; no calling code changes.
package session
