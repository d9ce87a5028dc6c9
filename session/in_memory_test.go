package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/promptdesk/core"
)

// Interface compliance (compile-time assertions)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	store := NewInMemoryStore()
	sess, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Empty(t, sess.GetMessages())
}

func TestInMemoryStore_GetReturnsClone(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Append("s1", core.NewUserMessage("hello")))

	sess, err := store.Get("s1")
	require.NoError(t, err)
	sess.AppendMessage(core.NewUserMessage("local only"))

	history, err := store.History("s1")
	require.NoError(t, err)
	assert.Len(t, history, 1, "mutating the clone must not affect the store")
}

func TestInMemoryStore_AppendAndHistory(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Append("s1", core.NewUserMessage("hello")))
	require.NoError(t, store.Append("s1", core.NewAssistantMessage("hi")))

	history, err := store.History("s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, core.RoleAssistant, history[1].Role)

	other, err := store.History("unknown")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInMemoryStore_ClearAndClearAll(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Append("s1", core.NewUserMessage("a")))
	require.NoError(t, store.Append("s2", core.NewUserMessage("b")))

	require.NoError(t, store.Clear("s1"))
	h1, _ := store.History("s1")
	h2, _ := store.History("s2")
	assert.Empty(t, h1)
	assert.Len(t, h2, 1)

	require.NoError(t, store.ClearAll())
	h2, _ = store.History("s2")
	assert.Empty(t, h2)

	// clearing an empty store is a no-op, not an error
	require.NoError(t, store.ClearAll())
	require.NoError(t, store.Clear("never-existed"))
}

func TestInMemoryStore_ConcurrentAppend(t *testing.T) {
	store := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			sid := fmt.Sprintf("s%d", i%5)
			assert.NoError(t, store.Append(sid, core.NewUserMessage(fmt.Sprintf("msg-%d", i))))
		}()
	}
	wg.Wait()

	total := 0
	for i := 0; i < 5; i++ {
		history, err := store.History(fmt.Sprintf("s%d", i))
		require.NoError(t, err)
		total += len(history)
	}
	assert.Equal(t, 50, total)
}
