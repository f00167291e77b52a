// Package observability carries the events emitted by the binding engine and
// the persistence adapters. Observers turn them into logs or metrics.
package observability

import (
	"context"
	"log/slog"
	"time"
)

type Level int

const (
	LevelVerbose Level = 5
	LevelInfo    Level = 9
	LevelWarning Level = 13
	LevelError   Level = 17
)

func (l Level) String() string {
	switch {
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	default:
		return "ERROR"
	}
}

func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

type EventType string

const (
	EventLifecycle         EventType = "binding.lifecycle"
	EventRegistered        EventType = "binding.registered"
	EventUnregistered      EventType = "binding.unregistered"
	EventResolutionFailure EventType = "binding.resolution_failure"
	EventConfigError       EventType = "binding.configuration_error"
	EventHandlerFailure    EventType = "binding.handler_failure"
	EventListenerFailure   EventType = "observable.listener_failure"
	EventStoreFailure      EventType = "prefs.store_failure"
)

type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Message   string
	Data      map[string]any
}

type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

var defaultObserver Observer = NewSlogObserver(nil)

// Default is the observer used when a component is not given one.
func Default() Observer {
	return defaultObserver
}

// SetDefault replaces the default observer. nil restores slog logging.
func SetDefault(o Observer) {
	if o == nil {
		o = NewSlogObserver(nil)
	}
	defaultObserver = o
}

// Emit fills in the timestamp and forwards the event to o, or to Default
// when o is nil.
func Emit(ctx context.Context, o Observer, event Event) {
	if o == nil {
		o = defaultObserver
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	o.OnEvent(ctx, event)
}

// Reporter returns a func that emits each error it receives as an event of
// type t at LevelError.
func Reporter(o Observer, t EventType, source string) func(error) {
	return func(err error) {
		if err == nil {
			return
		}
		Emit(context.Background(), o, Event{
			Type:    t,
			Level:   LevelError,
			Source:  source,
			Message: err.Error(),
			Data:    map[string]any{"error": err},
		})
	}
}
