package watchlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns one fresh instance of each locally testable Store.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "state")),
		"sqlite": sq,
	}
}

func TestStores_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "k", []byte(`["A"]`)))
			require.NoError(t, s.Put(ctx, "k", []byte(`["B"]`)))
			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `["B"]`, string(got))
		})
	}
}

func TestWatchlist_Scenario(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			w := New(s)
			assert.Empty(t, w.List(ctx))

			w.Add(ctx, "MSFT")
			w.Add(ctx, "TSLA")
			w.Remove(ctx, "MSFT")
			assert.Equal(t, []string{"TSLA"}, w.List(ctx))
		})
	}
}

func TestWatchlist_Idempotence(t *testing.T) {
	ctx := context.Background()
	w := New(NewMemoryStore())

	w.Add(ctx, "aapl")
	once := w.List(ctx)
	w.Add(ctx, "AAPL")
	assert.Equal(t, once, w.List(ctx))
	assert.Equal(t, []string{"AAPL"}, once)

	w.Remove(ctx, "NVDA")
	assert.Equal(t, []string{"AAPL"}, w.List(ctx))
	assert.True(t, w.Contains(ctx, "aapl"))
}

func TestWatchlist_InsertionOrderAndToggle(t *testing.T) {
	ctx := context.Background()
	w := New(NewMemoryStore())
	for _, s := range []string{"NVDA", "AAPL", "KO"} {
		w.Add(ctx, s)
	}
	assert.Equal(t, []string{"NVDA", "AAPL", "KO"}, w.List(ctx))

	assert.False(t, w.Toggle(ctx, "AAPL"))
	assert.True(t, w.Toggle(ctx, "V"))
	assert.Equal(t, []string{"NVDA", "KO", "V"}, w.List(ctx))
}

func TestWatchlist_ReadsFreshAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	tab1, tab2 := New(store), New(store)

	tab1.Add(ctx, "MSFT")
	assert.True(t, tab2.Contains(ctx, "MSFT"))
	tab2.Remove(ctx, "MSFT")
	assert.Empty(t, tab1.List(ctx))
}

func TestWatchlist_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key+".json"), []byte("{not json"), 0644))

	w := New(NewFileStore(dir))
	assert.Empty(t, w.List(ctx))
	w.Add(ctx, "AMD")
	assert.Equal(t, []string{"AMD"}, w.List(ctx), "corrupt record is overwritten")
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenStore) Put(context.Context, string, []byte) error   { return errors.New("quota exceeded") }

func TestWatchlist_StorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	w := New(brokenStore{})
	assert.NotPanics(t, func() {
		w.Add(ctx, "AAPL")
		w.Remove(ctx, "AAPL")
	})
	assert.Empty(t, w.List(ctx))
	assert.False(t, w.Contains(ctx, "AAPL"))
}
