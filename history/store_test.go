package history_test

import (
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/gocalc/history"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) history.Store

func entry(session string, seq int, input string, result float64) history.Entry {
	return history.Entry{
		SessionID: session,
		Seq:       seq,
		Input:     input,
		Result:    result,
		Timestamp: time.Date(2024, 5, 1, 12, 0, seq, 0, time.UTC),
	}
}

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Append_and_List", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append(entry("s1", 2, "2*3", 6)))
		require.NoError(t, store.Append(entry("s1", 1, "1+2", 3)))
		require.NoError(t, store.Append(entry("s2", 1, "9", 9)))

		entries, err := store.List("s1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, entry("s1", 1, "1+2", 3), entries[0])
		assert.Equal(t, entry("s1", 2, "2*3", 6), entries[1])
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		entries, err := store.List("nope")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run(name+"/Append_Overwrite", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append(entry("s1", 1, "1", 1)))
		require.NoError(t, store.Append(entry("s1", 1, "2", 2)))

		entries, err := store.List("s1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "2", entries[0].Input)
	})

	t.Run(name+"/Errors", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		e := entry("s1", 1, "(1+2", 0)
		e.Err = "unmatched parenthesis opened at offset 0"
		e.Kind = "unmatched_parenthesis"
		require.NoError(t, store.Append(e))

		entries, err := store.List("s1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].OK())
		assert.Equal(t, e, entries[0])
	})

	t.Run(name+"/NonFinite", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append(entry("s1", 1, "1/0", math.Inf(1))))
		require.NoError(t, store.Append(entry("s1", 2, "0-1/0", math.Inf(-1))))
		require.NoError(t, store.Append(entry("s1", 3, "0/0", math.NaN())))

		entries, err := store.List("s1")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.True(t, math.IsInf(entries[0].Result, 1))
		assert.True(t, math.IsInf(entries[1].Result, -1))
		assert.True(t, math.IsNaN(entries[2].Result))
	})

	t.Run(name+"/Clear", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Append(entry("s1", 1, "1", 1)))
		require.NoError(t, store.Append(entry("s2", 1, "2", 2)))
		require.NoError(t, store.Clear("s1"))

		entries, err := store.List("s1")
		require.NoError(t, err)
		assert.Empty(t, entries)

		entries, err = store.List("s2")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())
		assert.NoError(t, store.Close())

		assert.ErrorIs(t, store.Append(entry("s1", 1, "1", 1)), history.ErrStoreClosed)
		_, err := store.List("s1")
		assert.ErrorIs(t, err, history.ErrStoreClosed)
		assert.ErrorIs(t, store.Clear("s1"), history.ErrStoreClosed)
	})

	t.Run(name+"/Concurrent", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		const numGoroutines = 20

		var wg sync.WaitGroup
		for i := range numGoroutines {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Append(entry("s1", i+1, "1", 1)))
			}()
		}
		wg.Wait()

		entries, err := store.List("s1")
		require.NoError(t, err)
		require.Len(t, entries, numGoroutines)
		for i, e := range entries {
			assert.Equal(t, i+1, e.Seq)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContractTest(t, "Memory", func(t *testing.T) history.Store {
		return history.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContractTest(t, "SQLite", func(t *testing.T) history.Store {
		store, err := history.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store1, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Append(entry("s1", 1, "40+2", 42)))
	require.NoError(t, store1.Close())

	store2, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	entries, err := store2.List("s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 42.0, entries[0].Result)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := history.NewSQLiteStore("/nonexistent/path/history.db")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store, err := history.Open("")
	require.NoError(t, err)
	assert.IsType(t, &history.MemoryStore{}, store)
	require.NoError(t, store.Close())

	store, err = history.Open(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &history.SQLiteStore{}, store)
	require.NoError(t, store.Close())
}
