// Package artifact contains concrete implementations of the core.ArtifactStore
// plus the retention sweeper that reclaims expired artifacts.
//
// The canonical ArtifactStore interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. Implementation packages
// like this one (filesystem, in-memory, cloud object stores) provide storage
// backends that can be swapped without touching calling code.
//
// FSStore is the production backend: one file per artifact in a designated
// directory, the filename doubling as the key. InMemoryStore exists for tests
// and single-process prototypes. Sweeper enforces a time-to-live on whatever
// store it is given and is deliberately stateless across sweeps.
package artifact
