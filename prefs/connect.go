package prefs

import (
	"context"

	"github.com/delaneyj/servable/observability"
	"github.com/delaneyj/servable/observable"
)

// Connect loads key from s into d, falling back to def, and then writes
// every value d takes back to s. The returned key removes the write-through
// listener. Store failures are reported as events and never interrupt d.
func Connect[T any](d *observable.Data[T], s Store, key string, def T) observable.Key {
	v, _, err := Load(s, key, def)
	if err != nil {
		report(key, "stored value ignored", err)
	}
	d.SetValue(v)
	return d.AddListener(func(v T) {
		if err := s.Set(key, v); err != nil {
			report(key, "value not saved", err)
		}
	})
}

func report(key, msg string, err error) {
	observability.Emit(context.Background(), nil, observability.Event{
		Type:    observability.EventStoreFailure,
		Level:   observability.LevelError,
		Source:  "prefs",
		Message: msg,
		Data:    map[string]any{"key": key, "error": err.Error()},
	})
}
