package prefs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSONFile keeps preferences in a single JSON object on disk. The file is
// read on first use; every Set and Delete rewrites it.
type JSONFile struct {
	path string

	mu    sync.Mutex
	cache map[string]json.RawMessage
}

// OpenJSONFile returns a store for path. A relative path is resolved against
// baseDir. Nothing is read until the store is first used.
func OpenJSONFile(path, baseDir string) *JSONFile {
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	return &JSONFile{path: filepath.Clean(path)}
}

func (f *JSONFile) Path() string { return f.path }

// load fills the cache. A missing, empty or corrupt file yields an empty
// store; other read errors are returned and leave the store unloaded.
func (f *JSONFile) load() error {
	if f.cache != nil {
		return nil
	}
	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.cache = map[string]json.RawMessage{}
		return nil
	case err != nil:
		return fmt.Errorf("%w: %s: %v", ErrLoadFailed, f.path, err)
	}
	cache := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &cache); err != nil {
			slog.Warn("prefs: ignoring corrupt file", "path", f.path, "error", err)
			cache = map[string]json.RawMessage{}
		}
	}
	f.cache = cache
	return nil
}

func (f *JSONFile) Get(key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return false, err
	}
	raw, ok := f.cache[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
	}
	return true, nil
}

func (f *JSONFile) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	prev, had := f.cache[key]
	f.cache[key] = raw
	if err := f.save(); err != nil {
		f.restore(key, prev, had)
		return err
	}
	return nil
}

// restore puts key back the way it was before a write that could not be
// saved, so the cache keeps matching the file.
func (f *JSONFile) restore(key string, prev json.RawMessage, had bool) {
	if had {
		f.cache[key] = prev
		return
	}
	delete(f.cache, key)
}

// HasKey reports false when the file cannot be read.
func (f *JSONFile) HasKey(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.load() != nil {
		return false
	}
	_, ok := f.cache[key]
	return ok
}

// Delete removes key, rewriting the file only when the key existed.
func (f *JSONFile) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	prev, ok := f.cache[key]
	if !ok {
		return nil
	}
	delete(f.cache, key)
	if err := f.save(); err != nil {
		f.restore(key, prev, true)
		return err
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (f *JSONFile) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.cache))
	for k := range f.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// save writes the cache through a temporary file renamed over the target.
func (f *JSONFile) save() error {
	data, err := json.Marshal(f.cache)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, f.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, f.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, f.path, err)
	}
	return nil
}

var (
	_ Store   = (*JSONFile)(nil)
	_ Lister  = (*JSONFile)(nil)
	_ Deleter = (*JSONFile)(nil)
)
