package artifact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/promptdesk/core"
)

// fakeClock is a manually advanced clock shared by store and sweeper.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// failingStore wraps a store making deletion of one key fail permanently.
type failingStore struct {
	core.ArtifactStore
	failKey string
}

func (f *failingStore) Delete(key string) error {
	if key == f.failKey {
		return fmt.Errorf("permission denied")
	}
	return f.ArtifactStore.Delete(key)
}

func TestSweeper_TTLScenario(t *testing.T) {
	// TTL = 1800s. Put at t=0; at t=1750 the artifact is served, after a
	// sweep at t>=1800 it is gone.
	clock := newFakeClock()
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.Now = clock.Now })
	sweeper := NewSweeper(store, func(o *SweeperOptions) {
		o.TTL = 1800 * time.Second
		o.Now = clock.Now
	})

	key, err := store.Put([]byte("artifact"))
	require.NoError(t, err)

	clock.Advance(1750 * time.Second)
	assert.Equal(t, 0, sweeper.SweepOnce(context.Background()))
	_, err = store.Get(key)
	assert.NoError(t, err, "artifact younger than TTL must survive the sweep")

	clock.Advance(100 * time.Second) // now at t=1850
	assert.Equal(t, 1, sweeper.SweepOnce(context.Background()))
	_, err = store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweeper_KeepsFreshDeletesExpired(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.Now = clock.Now })
	sweeper := NewSweeper(store, func(o *SweeperOptions) {
		o.TTL = 30 * time.Minute
		o.Now = clock.Now
	})

	oldKey, err := store.Put([]byte("old"))
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	freshKey, err := store.Put([]byte("fresh"))
	require.NoError(t, err)

	clock.Advance(time.Minute) // old is exactly at TTL, fresh is 1m old
	removed := sweeper.SweepOnce(context.Background())
	assert.Equal(t, 1, removed)

	_, err = store.Get(oldKey)
	assert.ErrorIs(t, err, ErrNotFound)
	data, err := store.Get(freshKey)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestSweeper_EmptyStore(t *testing.T) {
	sweeper := NewSweeper(NewInMemoryStore())
	assert.Equal(t, 0, sweeper.SweepOnce(context.Background()))
}

func TestSweeper_OneFailureDoesNotAbortSweep(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.Now = clock.Now })

	stuck, err := store.Put([]byte("stuck"))
	require.NoError(t, err)
	other1, err := store.Put([]byte("a"))
	require.NoError(t, err)
	other2, err := store.Put([]byte("b"))
	require.NoError(t, err)

	wrapped := &failingStore{ArtifactStore: store, failKey: stuck}
	sweeper := NewSweeper(wrapped, func(o *SweeperOptions) {
		o.TTL = time.Minute
		o.Now = clock.Now
	})

	clock.Advance(2 * time.Minute)
	removed := sweeper.SweepOnce(context.Background())
	assert.Equal(t, 2, removed, "the failing entry must not abort the rest of the sweep")

	_, err = store.Get(other1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(other2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(stuck)
	assert.NoError(t, err, "the stuck entry stays until a later sweep succeeds")
}

func TestSweeper_StartStop(t *testing.T) {
	store := NewInMemoryStore()
	key, err := store.Put([]byte("short-lived"))
	require.NoError(t, err)

	sweeper := NewSweeper(store, func(o *SweeperOptions) {
		o.TTL = time.Nanosecond
		o.Interval = 5 * time.Millisecond
	})
	sweeper.Start()
	sweeper.Start() // second Start is a no-op

	assert.Eventually(t, func() bool {
		_, err := store.Get(key)
		return errors.Is(err, ErrNotFound)
	}, time.Second, 5*time.Millisecond)

	sweeper.Stop()
	sweeper.Stop() // Stop after Stop is safe
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	sweeper := NewSweeper(NewInMemoryStore())
	sweeper.Stop() // must not panic or block
}
