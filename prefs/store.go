// Package prefs persists observable values in key-value stores. A Store is
// passed in explicitly; there is no process-wide default backend.
package prefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations.
var (
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
	ErrUnsupported = errors.New("unsupported value")
)

// Store is the storage capability every backend satisfies. Get decodes the
// value stored under key into dst, a non-nil pointer, and reports whether
// the key existed.
type Store interface {
	Get(key string, dst any) (bool, error)
	Set(key string, value any) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys() ([]string, error)
}

// Deleter is implemented by stores that can remove a key.
type Deleter interface {
	Delete(key string) error
}

// Load reads key as a T. A missing key yields def with found false.
func Load[T any](s Store, key string, def T) (value T, found bool, err error) {
	var v T
	found, err = s.Get(key, &v)
	if err != nil || !found {
		return def, false, err
	}
	return v, true, nil
}

// Get reads key as a T, falling back to def when the key is missing or
// cannot be decoded.
func Get[T any](s Store, key string, def T) T {
	v, _, _ := Load(s, key, def)
	return v
}

func Set[T any](s Store, key string, value T) error {
	return s.Set(key, value)
}

// Keys lists the keys of s, or fails with ErrUnsupported when s cannot.
func Keys(s Store) ([]string, error) {
	l, ok := s.(Lister)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot list keys", ErrUnsupported, s)
	}
	return l.Keys()
}

// Delete removes key from s, or fails with ErrUnsupported when s cannot.
func Delete(s Store, key string) error {
	d, ok := s.(Deleter)
	if !ok {
		return fmt.Errorf("%w: %T cannot delete keys", ErrUnsupported, s)
	}
	return d.Delete(key)
}
