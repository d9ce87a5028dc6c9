// Package session contains concrete implementations of the core.SessionStore.
//
// Chat history is deliberately not process-global: every request carries a
// session identifier and the store scopes history by it, so scaling to
// multiple workers never races on shared mutable state. The in-memory store
// here suits tests and single-process deployments; the sqlite subpackage
// provides a durable backend that survives restarts.
package session
