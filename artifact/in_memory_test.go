package artifact

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/promptdesk/core"
)

// Interface compliance (compile-time assertions)
var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_PutGetIsolation(t *testing.T) {
	store := NewInMemoryStore()
	data := []byte("hello")
	key, err := store.Put(data)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	// mutate original slice
	data[0] = 'H'
	out, err := store.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != "hello" { // should not reflect mutation
		t.Fatalf("expected 'hello', got %q", string(out))
	}
	// mutate returned slice
	out[0] = 'x'
	out2, _ := store.Get(key)
	if string(out2) != "hello" { // original stored should be unchanged
		t.Fatalf("expected isolation, got %q", string(out2))
	}
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	store := NewInMemoryStore()
	k1, err := store.Put([]byte("1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Put([]byte("2")); err != nil {
		t.Fatal(err)
	}
	infos, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(infos))
	}
	if err := store.Delete(k1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(k1); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := store.Get(k1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted artifact, got %v", err)
	}
	infos, _ = store.List()
	if len(infos) != 1 {
		t.Fatalf("expected 1 entry after delete, got %d", len(infos))
	}
}

func TestInMemoryStore_ClearAll(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 3; i++ {
		if _, err := store.Put([]byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.ClearAll(); err != nil {
		t.Fatal(err)
	}
	infos, _ := store.List()
	if len(infos) != 0 {
		t.Fatalf("expected empty store, got %d", len(infos))
	}
	if err := store.ClearAll(); err != nil {
		t.Fatalf("second clear all: %v", err)
	}
}

func TestInMemoryStore_Concurrency(t *testing.T) {
	store := NewInMemoryStore()
	var wg sync.WaitGroup
	keys := make([]string, 100)
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := store.Put([]byte(fmt.Sprintf("data-%d", i)))
			if err != nil {
				t.Errorf("put err: %v", err)
				return
			}
			keys[i] = key
			_, _ = store.List()
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, key := range keys {
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
	infos, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 100 {
		t.Fatalf("expected 100 artifacts, got %d", len(infos))
	}
}
