package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/promptdesk/core"
)

// FSOptions configures the filesystem backed artifact store.
type FSOptions struct {
	// Ext is appended to every generated key (and therefore filename).
	Ext string
	// Now supplies creation timestamps; overridable for tests.
	Now func() time.Time
}

// FSStore persists each artifact as one file in a designated directory. The
// filename doubles as the key. Creation timestamps are tracked in an explicit
// in-memory index rather than trusting filesystem timestamp granularity; the
// index is rebuilt from file modification times on construction so artifacts
// written by a previous process remain subject to retention.
//
// The store exclusively owns its directory: keys are generated from random
// UUIDs so concurrent writers never collide and no cross-process lock is
// needed. Delete of a missing key and write of a fresh key are both naturally
// non-conflicting.
type FSStore struct {
	mu    sync.RWMutex
	dir   string
	ext   string
	now   func() time.Time
	index map[string]time.Time // key -> created_at
}

// NewFSStore creates (if necessary) the artifact directory and rebuilds the
// creation-time index from any files already present.
func NewFSStore(dir string, optFns ...func(o *FSOptions)) (*FSStore, error) {
	opts := FSOptions{
		Ext: ".png",
		Now: time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory %s: %w", dir, err)
	}

	s := &FSStore{
		dir:   dir,
		ext:   opts.Ext,
		now:   opts.Now,
		index: make(map[string]time.Time),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read artifact directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed between ReadDir and Info, skip
		}
		s.index[entry.Name()] = info.ModTime()
	}

	return s, nil
}

// Dir returns the directory the store writes into.
func (s *FSStore) Dir() string { return s.dir }

// Put writes the payload under a freshly generated key and records its
// creation time. The key is never reused; a failed filesystem write is
// surfaced to the caller and nothing is recorded.
func (s *FSStore) Put(data []byte) (string, error) {
	key := uuid.New().String() + s.ext
	path := filepath.Join(s.dir, key)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", key, err)
	}

	s.mu.Lock()
	s.index[key] = s.now()
	s.mu.Unlock()

	putsTotal.Inc()
	return key, nil
}

// Get reads the payload for key or returns ErrNotFound. A single ReadFile
// call means a fetch either observes the fully written bytes or nothing;
// partial reads are never served.
func (s *FSStore) Get(key string) ([]byte, error) {
	if !validKey(key) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read artifact %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the artifact. Deleting a key that is already gone is not an
// error. The index entry is dropped only once the file is confirmed gone, so
// a failed removal keeps the key listed and a later sweep retries it.
func (s *FSStore) Delete(key string) error {
	if !validKey(key) {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact %s: %w", key, err)
	}

	s.mu.Lock()
	delete(s.index, key)
	s.mu.Unlock()
	return nil
}

// List returns a snapshot of the currently known artifacts. Artifacts put
// after the snapshot is taken are not included.
func (s *FSStore) List() ([]core.ArtifactInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]core.ArtifactInfo, 0, len(s.index))
	for key, createdAt := range s.index {
		infos = append(infos, core.ArtifactInfo{Key: key, CreatedAt: createdAt})
	}
	return infos, nil
}

// ClearAll deletes every currently known artifact. Entries removed
// concurrently (e.g. by the sweeper) are treated as already satisfied.
func (s *FSStore) ClearAll() error {
	infos, err := s.List()
	if err != nil {
		return err
	}
	var errs []error
	for _, info := range infos {
		if err := s.Delete(info.Key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// validKey rejects anything that is not a plain filename, so a crafted key
// can never escape the artifact directory.
func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	if strings.ContainsAny(key, "/\\") {
		return false
	}
	return filepath.Base(key) == key
}
