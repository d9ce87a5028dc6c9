package core

import "time"

// ArtifactInfo describes one stored artifact for enumeration purposes.
// CreatedAt is the authoritative creation timestamp used by retention logic.
type ArtifactInfo struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtifactStore defines the interface for artifact persistence. Implementations
// must be thread-safe. Artifacts are immutable once written: there is no
// update-in-place, only Put of a fresh key and eventual Delete.
//
// Contract:
//   - Put generates a collision-resistant key, never overwriting an existing
//     one, and returns it. A failed underlying write is surfaced to the caller.
//   - Get returns the exact bytes written or ErrNotFound. A missing key is a
//     normal, expected condition (a retention sweep may race a lingering
//     browser reference) and must not be treated as a failure of the caller.
//   - Delete is idempotent: removing a key that is already gone returns nil.
//   - List returns a point-in-time snapshot of (key, created_at) pairs.
//     Artifacts put after the snapshot is taken may be absent from it.
//   - ClearAll deletes every currently known artifact, best-effort: entries
//     removed concurrently are treated as already satisfied.
type ArtifactStore interface {
	Put(data []byte) (string, error)
	Get(key string) ([]byte, error)
	Delete(key string) error
	List() ([]ArtifactInfo, error)
	ClearAll() error
}
