package observable

import (
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// Key identifies a registered listener. Registering a second listener under
// the same key replaces the first one and moves it to the end of the list.
type Key uint64

var lastKey atomic.Uint64

// NextKey allocates a key that no other caller of NextKey will receive.
// Allocated keys have the high bit set so they never collide with small
// hand-picked keys.
func NextKey() Key {
	return Key(lastKey.Add(1) | 1<<63)
}

type entry[F any] struct {
	key Key
	fn  F
}

// listeners is an insertion ordered collection of keyed callbacks.
type listeners[F any] struct {
	entries []entry[F]
	keys    mapset.Set[Key]
}

func (l *listeners[F]) put(key Key, fn F) {
	if l.keys == nil {
		l.keys = mapset.NewThreadUnsafeSet[Key]()
	}
	if l.keys.Contains(key) {
		l.delete(key)
	}
	l.entries = append(l.entries, entry[F]{key: key, fn: fn})
	l.keys.Add(key)
}

func (l *listeners[F]) delete(key Key) bool {
	if l.keys == nil || !l.keys.Contains(key) {
		return false
	}
	for i, e := range l.entries {
		if e.key == key {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			break
		}
	}
	l.keys.Remove(key)
	return true
}

func (l *listeners[F]) has(key Key) bool {
	return l.keys != nil && l.keys.Contains(key)
}

func (l *listeners[F]) len() int {
	return len(l.entries)
}

// snapshot copies the entries so listeners may add or remove listeners
// while being notified.
func (l *listeners[F]) snapshot() []entry[F] {
	if len(l.entries) == 0 {
		return nil
	}
	out := make([]entry[F], len(l.entries))
	copy(out, l.entries)
	return out
}
