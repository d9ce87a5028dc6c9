// Package core defines the central domain contracts of PromptDesk: chat
// messages, conversational sessions and the stores that persist them, and the
// artifact store that holds generated images.
//
// The canonical interfaces live here to avoid dependency cycles and keep
// domain contracts central. Implementation packages (in-memory, filesystem,
// SQLite, cloud object stores, etc.) provide storage backends that can be
// swapped without touching calling code. Callers should depend on these
// interfaces rather than concrete types so they can substitute alternative
// persistence layers in tests or production.
package core
