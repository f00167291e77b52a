package sqlitestore_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/delaneyj/servable/observable"
	"github.com/delaneyj/servable/prefs"
	"github.com/delaneyj/servable/prefs/sqlitestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlitestore.Open("  ")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, prefs.Set(s, "level", 3))
	require.NoError(t, prefs.Set(s, "name", "ada"))
	require.NoError(t, prefs.Set(s, "tags", []string{"x", "y"}))

	assert.Equal(t, 3, prefs.Get(s, "level", 0))
	assert.Equal(t, "ada", prefs.Get(s, "name", ""))
	assert.Equal(t, []string{"x", "y"}, prefs.Get(s, "tags", []string(nil)))
	assert.Equal(t, 9, prefs.Get(s, "missing", 9))

	require.NoError(t, prefs.Set(s, "level", 4))
	assert.Equal(t, 4, prefs.Get(s, "level", 0))
}

func TestKeysAndDelete(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("b", true))
	require.NoError(t, s.Set("a", 1.5))

	keys, err := prefs.Keys(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	entries, err := s.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, json.RawMessage("1.5"), entries[0].Value)
	assert.False(t, entries[0].UpdatedAt.IsZero())

	require.NoError(t, prefs.Delete(s, "a"))
	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

// values survive reopening the database file
func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("volume", 7))
	require.NoError(t, s.Close())

	s, err = sqlitestore.Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 7, prefs.Get(s, "volume", 0))
}

func TestInMemory(t *testing.T) {
	s, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Set("k", "v"))
	assert.Equal(t, "v", prefs.Get(s, "k", ""))
}

func TestDecodeFailure(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("name", "ada"))
	_, err := s.Get("name", new(int))
	assert.ErrorIs(t, err, prefs.ErrLoadFailed)
	assert.ErrorIs(t, s.Set("bad", make(chan int)), prefs.ErrSaveFailed)
}

func TestNilStore(t *testing.T) {
	var s *sqlitestore.Store
	assert.NoError(t, s.Close())
	_, err := s.Get("k", new(int))
	assert.ErrorIs(t, err, prefs.ErrLoadFailed)
	assert.ErrorIs(t, s.Set("k", 1), prefs.ErrSaveFailed)
}

// the store plugs into Connect like any other backend
func TestConnect(t *testing.T) {
	s := openTestStore(t)
	d := observable.NewData(0)
	prefs.Connect(d, s, "score", 10)
	assert.Equal(t, 10, d.Value())
	d.SetValue(11)
	assert.Equal(t, 11, prefs.Get(s, "score", 0))
}
