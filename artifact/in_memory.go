package artifact

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/promptdesk/core"
)

// entry is the internal representation held by InMemoryStore.
type entry struct {
	data      []byte
	createdAt time.Time
}

// InMemoryStore is a trivial in-process ArtifactStore implementation useful
// for tests, examples and single-process prototypes. It keeps all artifacts in
// a map guarded by an RWMutex. Data is copied on put / get to avoid accidental
// external mutation of internal buffers.
//
// This implementation does not survive process restarts; for production,
// prefer FSStore (or a durable object store) so artifacts outlive the process.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// InMemoryOptions configures the in-memory artifact store.
type InMemoryOptions struct {
	// Now supplies creation timestamps; overridable for tests.
	Now func() time.Time
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{entries: make(map[string]entry), now: opts.Now}
}

// Put stores a copy of the payload under a freshly generated key.
func (s *InMemoryStore) Put(data []byte) (string, error) {
	cp := make([]byte, len(data))
	copy(cp, data)

	key := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{data: cp, createdAt: s.now()}
	putsTotal.Inc()
	return key, nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (s *InMemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(e.data))
	copy(cp, e.data)
	return cp, nil
}

// Delete removes the artifact if present. Missing keys are not an error.
func (s *InMemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// List returns a snapshot of the current artifacts.
func (s *InMemoryStore) List() ([]core.ArtifactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]core.ArtifactInfo, 0, len(s.entries))
	for key, e := range s.entries {
		infos = append(infos, core.ArtifactInfo{Key: key, CreatedAt: e.createdAt})
	}
	return infos, nil
}

// ClearAll removes every stored artifact.
func (s *InMemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	return nil
}
